package update_member_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/schedule"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/schedule/models"
)

const (
	msgInvalidShopID      = "некорректный ID салона"
	msgInvalidMemberID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/shops/{shopId}/team-members/{memberId}/schedule
// PUT-семантика: присланный набор окон и блокировок полностью заменяет текущий.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/team-members/{id}/schedule - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	memberID, err := strconv.ParseInt(vars["memberId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/team-members/{id}/schedule - Invalid member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	var req models.ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/team-members/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceMemberSchedule(r.Context(), memberID, shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /shops/{id}/team-members/{id}/schedule - Invalid schedule: shop_id=%d, member_id=%d, error=%v",
				shopID, memberID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /shops/{id}/team-members/{id}/schedule - Failed to replace schedule: shop_id=%d, member_id=%d, error=%v",
				shopID, memberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/team-members/{id}/schedule - Schedule replaced: shop_id=%d, member_id=%d, windows=%d, blocked=%d",
		shopID, memberID, len(result.Windows), len(result.Blocked))
	handlers.RespondJSON(w, http.StatusOK, result)
}
