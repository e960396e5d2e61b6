package schedule

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListWindows(ctx context.Context, teamMemberID, shopID int64) ([]*domain.AvailabilityWindow, error)
	ReplaceWindows(ctx context.Context, teamMemberID, shopID int64, windows []*domain.AvailabilityWindow) error
	ListBlocked(ctx context.Context, teamMemberID, shopID int64) ([]*domain.BlockedTime, error)
	ReplaceBlocked(ctx context.Context, teamMemberID, shopID int64, blocked []*domain.BlockedTime) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator интерфейс инвалидации кэша слотов
type CacheInvalidator interface {
	Invalidate(ctx context.Context, teamMemberID int64, date time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
