package get_member_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
)

const (
	msgInvalidShopID   = "некорректный ID салона"
	msgInvalidMemberID = "некорректный ID мастера"
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

// Handle GET /api/v1/shops/{shopId}/team-members/{memberId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/schedule - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	memberID, err := strconv.ParseInt(vars["memberId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/team-members/{id}/schedule - Invalid member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	result, err := h.service.GetMemberSchedule(r.Context(), memberID, shopID)
	if err != nil {
		h.logger.Error("GET /shops/{id}/team-members/{id}/schedule - Failed to get schedule: shop_id=%d, member_id=%d, error=%v",
			shopID, memberID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/team-members/{id}/schedule - Schedule retrieved: shop_id=%d, member_id=%d, windows=%d, blocked=%d",
		shopID, memberID, len(result.Windows), len(result.Blocked))
	handlers.RespondJSON(w, http.StatusOK, result)
}
