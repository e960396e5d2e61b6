package update_member_schedule

import (
	"context"

	"github.com/ev4kov/SBP-BookingEngine/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceMemberSchedule(ctx context.Context, teamMemberID, shopID int64, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
