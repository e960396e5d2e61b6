package create_hold

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Request модель запроса на временное удержание слота
type Request struct {
	SessionID    string           // Сессия клиента (первичный ключ холда)
	ShopID       int64            // ID салона
	TeamMemberID int64            // ID мастера
	ServiceID    int64            // ID услуги
	VariantID    *int64           // Вариант услуги (опционально)
	Date         time.Time        // Дата без времени
	StartTime    types.TimeString // Время начала слота
}

// Response модель ответа с созданным холдом
type Response struct {
	SessionID    string           `json:"sessionId"`
	SlotID       string           `json:"slotId"`
	ShopID       int64            `json:"shopId"`
	TeamMemberID int64            `json:"teamMemberId"`
	Date         string           `json:"date"`
	StartTime    types.TimeString `json:"startTime"`
	EndTime      types.TimeString `json:"endTime"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	TTLSeconds   int              `json:"ttlSeconds"`
}
