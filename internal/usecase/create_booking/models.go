package create_booking

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Request модель запроса на создание бронирования.
// Клиентский путь передаёт SessionID и превращает холд в бронь.
// Персонал салона (StaffID из заголовка) создаёт бронь напрямую,
// в том числе вне рабочего окна мастера.
type Request struct {
	SessionID    *string          // Сессия с холдом (клиентский путь)
	StaffID      *int64           // ID сотрудника (staff-путь)
	ClientID     int64            // ID клиента
	ShopID       int64            // ID салона
	TeamMemberID int64            // ID мастера
	ServiceID    int64            // ID услуги
	VariantID    *int64           // Вариант услуги (опционально)
	Date         time.Time        // Дата без времени
	StartTime    types.TimeString // Время начала
	ClientName   *string          // Имя клиента (денормализация)
	Notes        *string          // Комментарий к записи
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *models.BookingResponse `json:"booking"`
}
