package create_hold

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrVariantNotFound возвращается, когда у услуги нет запрошенного варианта
	ErrVariantNotFound = errors.New("service variant not found")

	// ErrSlotHeld возвращается, когда слот удерживается другой сессией
	ErrSlotHeld = errors.New("slot is held by another session")

	// ErrSlotNotAvailable возвращается, когда слот занят бронью,
	// попадает в блокировку или лежит вне рабочего окна
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается при дате в прошлом или слишком позднем запросе
	ErrInvalidDate = errors.New("invalid hold date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
