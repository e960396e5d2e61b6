package create_booking

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Hold, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

// ConflictService интерфейс сервиса проверки конфликтов размещения
type ConflictService interface {
	ValidatePlacement(ctx context.Context, req *conflict.PlacementRequest, now time.Time) error
}

// CatalogServiceClient интерфейс клиента каталога
type CatalogServiceClient interface {
	GetShop(ctx context.Context, shopID int64) (*catalogservice.Shop, error)
	GetService(ctx context.Context, shopID, serviceID int64) (*catalogservice.Service, error)
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
