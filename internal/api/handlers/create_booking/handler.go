package create_booking

import (
	"errors"
	"net/http"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	"github.com/ev4kov/SBP-BookingEngine/internal/api/middleware"
	createBooking "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingIdentity    = "требуется sessionId или заголовок X-Staff-ID"
	msgShopNotFound       = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgVariantNotFound    = "вариант услуги не найден"
	msgHoldNotFound       = "у сессии нет удержанного слота"
	msgHoldExpired        = "удержание слота истекло, выберите время заново"
	msgHoldMismatch       = "удержанный слот не совпадает с запрошенным"
	msgSlotHeld           = "слот удерживается другим клиентом"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgInvalidBookingDate = "некорректная дата бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Клиент подтверждает checkout с sessionId (холд превращается в бронь),
// сотрудник с X-Staff-ID создаёт бронь напрямую.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var staffID *int64
	if id, ok := middleware.StaffIDFromContext(r.Context()); ok {
		staffID = &id
	}

	if req.SessionID == nil && staffID == nil {
		h.logger.Warn("POST /bookings - Neither session nor staff identity provided: client_id=%d", req.ClientID)
		handlers.RespondBadRequest(w, msgMissingIdentity)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(staffID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
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
		case errors.Is(err, createBooking.ErrHoldExpired):
			h.logger.Warn("POST /bookings - Hold expired: client_id=%d, member_id=%d", req.ClientID, req.TeamMemberID)
			handlers.RespondJSON(w, http.StatusGone, NewConflictResponse(http.StatusGone, ReasonHoldExpired, msgHoldExpired))

		case errors.Is(err, createBooking.ErrHoldNotFound):
			h.logger.Warn("POST /bookings - Hold not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, createBooking.ErrHoldMismatch):
			h.logger.Warn("POST /bookings - Hold mismatch: client_id=%d, member_id=%d, date=%s, start=%s",
				req.ClientID, req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(http.StatusConflict, ReasonHoldMismatch, msgHoldMismatch))

		case errors.Is(err, createBooking.ErrSlotHeld):
			h.logger.Warn("POST /bookings - Slot held by another session: member_id=%d, date=%s, start=%s",
				req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(http.StatusConflict, ReasonSlotHeld, msgSlotHeld))

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: member_id=%d, date=%s, start=%s",
				req.TeamMemberID, req.Date, req.StartTime)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(http.StatusConflict, ReasonSlotNotAvailable, msgSlotNotAvailable))

		case errors.Is(err, createBooking.ErrShopNotFound):
			h.logger.Warn("POST /bookings - Shop not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: shop_id=%d, service_id=%d", req.ShopID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrVariantNotFound):
			h.logger.Warn("POST /bookings - Variant not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: client_id=%d, date=%s", req.ClientID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, member_id=%d, error=%v",
				req.ClientID, req.TeamMemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, number=%s, client_id=%d, member_id=%d",
		result.Booking.ID, result.Booking.BookingNumber, req.ClientID, req.TeamMemberID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
