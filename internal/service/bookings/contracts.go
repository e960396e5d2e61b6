package bookings

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByCalendarFilter(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error
}

// ConflictService интерфейс сервиса проверки конфликтов размещения
type ConflictService interface {
	ValidatePlacement(ctx context.Context, req *conflict.PlacementRequest, now time.Time) error
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

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
