package get_available_slots

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
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

// CatalogServiceClient интерфейс клиента каталога
type CatalogServiceClient interface {
	GetShop(ctx context.Context, shopID int64) (*catalogservice.Shop, error)
	GetService(ctx context.Context, shopID, serviceID int64) (*catalogservice.Service, error)
}

// SlotsCache интерфейс кэша снапшотов слотов
type SlotsCache interface {
	Get(ctx context.Context, shopID, teamMemberID, serviceID int64, variantID *int64, date time.Time) ([]*domain.Slot, error)
	Set(ctx context.Context, shopID, teamMemberID, serviceID int64, variantID *int64, date time.Time, slots []*domain.Slot) error
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
