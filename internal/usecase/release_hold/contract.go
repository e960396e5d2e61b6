package release_hold

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Hold, error)
	DeleteBySession(ctx context.Context, sessionID string) error
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
