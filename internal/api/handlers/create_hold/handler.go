package create_hold

import (
	"errors"
	"net/http"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	createHold "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingSession     = "sessionId обязателен"
	msgShopNotFound       = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgVariantNotFound    = "вариант услуги не найден"
	msgSlotHeld           = "слот удерживается другим клиентом"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgInvalidHoldDate    = "слот в прошлом или слишком близко к началу"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.SessionID == "" {
		h.logger.Warn("POST /holds - Missing session ID")
		handlers.RespondBadRequest(w, msgMissingSession)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /holds - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrSlotHeld):
			h.logger.Warn("POST /holds - Slot held by another session: member_id=%d, date=%s, start=%s",
				req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(ReasonSlotHeld, msgSlotHeld))

		case errors.Is(err, createHold.ErrSlotNotAvailable):
			h.logger.Warn("POST /holds - Slot not available: member_id=%d, date=%s, start=%s",
				req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(ReasonSlotNotAvailable, msgSlotNotAvailable))

		case errors.Is(err, createHold.ErrShopNotFound):
			h.logger.Warn("POST /holds - Shop not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, createHold.ErrServiceNotFound):
			h.logger.Warn("POST /holds - Service not found: shop_id=%d, service_id=%d", req.ShopID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createHold.ErrVariantNotFound):
			h.logger.Warn("POST /holds - Variant not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, createHold.ErrInvalidDate):
			h.logger.Warn("POST /holds - Invalid hold date: member_id=%d, date=%s, start=%s",
				req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidHoldDate)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /holds - Failed to create hold: session_id=%s, member_id=%d, error=%v",
				req.SessionID, req.TeamMemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds - Hold created: session_id=%s, member_id=%d, slot_id=%s, expires_at=%s",
		result.SessionID, result.TeamMemberID, result.SlotID, result.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
