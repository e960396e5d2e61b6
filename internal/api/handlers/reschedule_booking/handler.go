package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	"github.com/ev4kov/SBP-BookingEngine/internal/api/middleware"
	rescheduleBooking "github.com/ev4kov/SBP-BookingEngine/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMode        = "некорректный режим, ожидается move, resize_start или resize_end"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotReschedulable   = "бронь в текущем статусе нельзя переносить"
	msgSlotHeld           = "целевое время удерживается другим клиентом"
	msgSlotNotAvailable   = "целевое время недоступно"
	msgInvalidTargetDate  = "целевая дата в прошлом"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var staffID *int64
	if id, ok := middleware.StaffIDFromContext(r.Context()); ok {
		staffID = &id
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, staffID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse request: booking_id=%d, error=%v",
			bookingID, err)
		switch {
		case errors.Is(err, errInvalidMode):
			handlers.RespondBadRequest(w, msgInvalidMode)
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Not reschedulable: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrSlotHeld):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target held: booking_id=%d", bookingID)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(ReasonSlotHeld, msgSlotHeld))

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target not available: booking_id=%d", bookingID)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(ReasonSlotNotAvailable, msgSlotNotAvailable))

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target date in the past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTargetDate)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, mode=%s, date=%s, start=%s",
		bookingID, req.Mode, result.Booking.BookingDate, result.Booking.StartTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
