package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrStateTransition возвращается при недопустимом переходе статуса
var ErrStateTransition = errors.New("invalid booking status transition")

// statusTransitions допустимые переходы статусов бронирования.
// cancelled и no_show можно вернуть в confirmed (реактивация),
// completed - терминальный статус.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCancelled: {StatusConfirmed},
	StatusNoShow:    {StatusConfirmed},
	StatusCompleted: {},
}

// CanTransition проверяет, допустим ли переход из from в to
func CanTransition(from, to BookingStatus) bool {
	allowed, ok := statusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition переводит бронирование в новый статус.
// Вход в completed/cancelled/no_show проставляет соответствующий timestamp,
// выход из статуса (реактивация) очищает его - решение зафиксировано тестами.
func ApplyTransition(b *Booking, to BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrStateTransition, b.Status, to)
	}

	switch b.Status {
	case StatusCancelled:
		b.CancelledAt = nil
		b.CancellationReason = nil
	case StatusNoShow:
		b.NoShowAt = nil
	}

	switch to {
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusNoShow:
		b.NoShowAt = &now
	}

	b.Status = to
	return nil
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	switch status {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return status, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}
