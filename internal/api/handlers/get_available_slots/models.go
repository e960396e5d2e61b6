package get_available_slots

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	getAvailableSlots "github.com/ev4kov/SBP-BookingEngine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ShopID          int64           `json:"shopId"`
	TeamMemberID    int64           `json:"teamMemberId"`
	ServiceID       int64           `json:"serviceId"`
	VariantID       *int64          `json:"variantId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота.
// StartTime/EndTime - машинные значения "15:04", Display* - 12-часовой
// формат для отображения в UI.
type AvailableSlot struct {
	SlotID         string `json:"slotId"`
	StartTime      string `json:"startTime"`
	DisplayTime    string `json:"displayTime"`
	EndTime        string `json:"endTime"`
	DisplayEndTime string `json:"displayEndTime"`
	IsAvailable    bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			SlotID:         slot.SlotID,
			StartTime:      slot.StartTime.String(),
			DisplayTime:    displayTime(slot.StartTime.String()),
			EndTime:        slot.EndTime.String(),
			DisplayEndTime: displayTime(slot.EndTime.String()),
			IsAvailable:    slot.IsAvailable,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ShopID:          resp.ShopID,
		TeamMemberID:    resp.TeamMemberID,
		ServiceID:       resp.ServiceID,
		VariantID:       resp.VariantID,
		DurationMinutes: resp.DurationMin,
		Slots:           slots,
	}
}

// displayTime переводит "14:30" в "2:30 PM".
// Слот уже провалидирован use case-ом, битое значение возвращаем как есть.
func displayTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(shopID, memberID, serviceID int64, variantID *int64, dateStr string, sessionID *string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ShopID:       shopID,
		TeamMemberID: memberID,
		ServiceID:    serviceID,
		VariantID:    variantID,
		Date:         date,
		SessionID:    sessionID,
	}, nil
}
