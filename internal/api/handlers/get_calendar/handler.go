package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
)

const (
	msgInvalidShopID   = "некорректный ID салона"
	msgInvalidMemberID = "некорректный ID мастера"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter   = "некорректный фильтр календаря"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/team-members/{memberId}/calendar
// Query params: from, to (YYYY-MM-DD, опционально).
// Отдаёт только занимающие календарь брони (confirmed, completed).
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/calendar - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	memberID, err := strconv.ParseInt(vars["memberId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/calendar - Invalid member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	req := &models.GetCalendarRequest{
		TeamMemberID: &memberID,
		ShopID:       &shopID,
		OnlyOccupied: true,
	}

	if from := r.URL.Query().Get("from"); from != "" {
		date, err := time.Parse(domain.DateFormat, from)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/team-members/{id}/calendar - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &date
	}

	if to := r.URL.Query().Get("to"); to != "" {
		date, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/team-members/{id}/calendar - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &date
	}

	result, err := h.service.GetCalendar(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/team-members/{id}/calendar - Invalid filter: shop_id=%d, member_id=%d",
				shopID, memberID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /shops/{id}/team-members/{id}/calendar - Failed to get calendar: shop_id=%d, member_id=%d, error=%v",
				shopID, memberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/team-members/{id}/calendar - Calendar retrieved: shop_id=%d, member_id=%d, count=%d",
		shopID, memberID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
