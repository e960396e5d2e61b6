package domain

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a confirmed appointment in a team member's calendar
type Booking struct {
	ID            int64
	BookingNumber string // человекочитаемый уникальный номер, например "BK-20251015-4F2A1C"
	TeamMemberID  int64
	ShopID        int64
	ServiceID     int64
	VariantID     *int64
	ClientID      int64
	BookingDate   time.Time
	StartTime     types.TimeString
	DurationMin   int
	Price         float64
	Status        BookingStatus

	// Denormalized data for history
	ServiceName string
	ClientName  *string
	Notes       *string

	CancellationReason *string
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	NoShowAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает занимаемый бронированием интервал [start, start+duration)
func (b *Booking) Interval() (TimeInterval, error) {
	return NewTimeInterval(b.StartTime, b.DurationMin)
}

// OccupiesCalendar returns true if the booking blocks its interval in the calendar.
// Cancelled and no-show bookings no longer occupy the calendar.
func (b *Booking) OccupiesCalendar() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCompleted
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeRescheduled returns true if the booking time can still be edited
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusConfirmed
}

// CalendarFilter фильтр для чтения календаря мастера
type CalendarFilter struct {
	TeamMemberID *int64     // Обязательный параметр
	ShopID       *int64     // Фильтр по салону (опционально)
	StartDate    *time.Time // Начало периода (опционально)
	EndDate      *time.Time // Конец периода (опционально)
	OnlyOccupied bool       // Только бронирования, занимающие календарь (confirmed/completed)
}
