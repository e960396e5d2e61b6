package get_available_slots

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// Request модель запроса на получение слотов мастера
type Request struct {
	ShopID       int64      // ID салона
	TeamMemberID int64      // ID мастера
	ServiceID    int64      // ID услуги
	VariantID    *int64     // Вариант услуги (опционально, меняет длительность)
	Date         time.Time  // Дата без времени
	SessionID    *string    // Сессия клиента: собственный холд не скрывает слот
}

// Response модель ответа со слотами на день
type Response struct {
	Date         time.Time      // Дата, на которую запрашивались слоты
	ShopID       int64          // ID салона
	TeamMemberID int64          // ID мастера
	ServiceID    int64          // ID услуги
	VariantID    *int64         // Вариант услуги
	DurationMin  int            // Итоговая длительность услуги
	Slots        []*domain.Slot // Слоты дня с флагами доступности
}
