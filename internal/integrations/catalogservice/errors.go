package catalogservice

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден в каталоге
	ErrShopNotFound = errors.New("catalog has no such shop")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("catalog has no such service")

	// ErrVariantNotFound возвращается, когда у услуги нет запрошенного варианта
	ErrVariantNotFound = errors.New("service has no such variant")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
