package conflict

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCalendarFilter(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error)
}

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	GetLiveByMemberAndDate(ctx context.Context, teamMemberID int64, date time.Time, now time.Time) ([]*domain.Hold, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWindowsForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.AvailabilityWindow, error)
	GetBlockedForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.BlockedTime, error)
}

// Metrics интерфейс для записи метрик отказов размещения
type Metrics interface {
	RecordPlacementRejection(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
