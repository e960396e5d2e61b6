package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotReschedulable возвращается, когда бронь нельзя переносить
	// (отменена, завершена или отмечена как неявка)
	ErrNotReschedulable = errors.New("booking cannot be rescheduled")

	// ErrSlotHeld возвращается, когда целевое время удерживается сессией
	ErrSlotHeld = errors.New("target time is held by another session")

	// ErrSlotNotAvailable возвращается, когда целевое время занято или вне окна
	ErrSlotNotAvailable = errors.New("target time is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid target date")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
