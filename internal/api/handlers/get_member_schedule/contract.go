package get_member_schedule

import (
	"context"

	"github.com/ev4kov/SBP-BookingEngine/internal/service/schedule/models"
)

type ScheduleService interface {
	GetMemberSchedule(ctx context.Context, teamMemberID, shopID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
