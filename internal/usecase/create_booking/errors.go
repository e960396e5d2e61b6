package create_booking

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrVariantNotFound возвращается, когда у услуги нет запрошенного варианта
	ErrVariantNotFound = errors.New("service variant not found")

	// ErrHoldNotFound возвращается, когда у сессии нет холда
	ErrHoldNotFound = errors.New("session has no hold")

	// ErrHoldExpired возвращается, когда холд сессии истёк
	ErrHoldExpired = errors.New("hold has expired")

	// ErrHoldMismatch возвращается, когда холд сессии удерживает другой слот
	ErrHoldMismatch = errors.New("hold does not match requested slot")

	// ErrSlotHeld возвращается, когда слот удерживается другой сессией
	ErrSlotHeld = errors.New("slot is held by another session")

	// ErrSlotNotAvailable возвращается, когда слот занят или вне рабочего окна
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
