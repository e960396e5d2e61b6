package conflict

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid placement input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("conflict service: internal error")
)

// Причины отказа в размещении интервала
const (
	ReasonBooking       = "booking_overlap"
	ReasonHold          = "hold_overlap"
	ReasonOutsideWindow = "outside_window"
	ReasonBlocked       = "blocked_time"
)

// ConflictError описывает, почему интервал нельзя разместить в календаре.
// Reason - машинная причина, ConflictingID - идентификатор мешающей брони
// (0, если мешает не бронь).
type ConflictError struct {
	Reason        string
	ConflictingID int64
}

func (e *ConflictError) Error() string {
	if e.ConflictingID != 0 {
		return fmt.Sprintf("placement conflict: %s (booking id=%d)", e.Reason, e.ConflictingID)
	}
	return fmt.Sprintf("placement conflict: %s", e.Reason)
}

// IsConflict проверяет, является ли ошибка конфликтом размещения
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
