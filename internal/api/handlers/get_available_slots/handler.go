package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	getAvailableSlots "github.com/ev4kov/SBP-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidShopID   = "некорректный ID салона"
	msgInvalidMemberID = "некорректный ID мастера"
	msgInvalidService  = "некорректный ID услуги"
	msgMissingService  = "ID услуги обязателен"
	msgInvalidVariant  = "некорректный ID варианта услуги"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgShopNotFound    = "салон не найден"
	msgServiceNotFound = "услуга не найдена"
	msgVariantNotFound = "вариант услуги не найден"
	msgDateInPast      = "дата в прошлом"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/team-members/{memberId}/available-slots
// Query params: serviceId (обязателен), date (обязателен, YYYY-MM-DD),
// variantId и sessionId - опциональны.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	memberID, err := strconv.ParseInt(vars["memberId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingService)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidService)
		return
	}

	var variantID *int64
	if variantIDStr := r.URL.Query().Get("variantId"); variantIDStr != "" {
		parsed, err := strconv.ParseInt(variantIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid variant ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidVariant)
			return
		}
		variantID = &parsed
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var sessionID *string
	if s := r.URL.Query().Get("sessionId"); s != "" {
		sessionID = &s
	}

	useCaseReq, err := ToUseCaseRequest(shopID, memberID, serviceID, variantID, dateStr, sessionID)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Service not found: shop_id=%d, service_id=%d",
				shopID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrVariantNotFound):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Variant not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Date in the past: shop_id=%d, date=%s",
				shopID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidService)

		default:
			h.logger.Error("GET /shops/{id}/team-members/{id}/available-slots - Failed to get slots: shop_id=%d, member_id=%d, service_id=%d, error=%v",
				shopID, memberID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /shops/{id}/team-members/{id}/available-slots - Slots retrieved: shop_id=%d, member_id=%d, service_id=%d, slots_count=%d",
		shopID, memberID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
