package domain

import (
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Slot кандидат на время начала записи, сгенерированный калькулятором доступности
type Slot struct {
	SlotID      string
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}

// MakeSlotID возвращает стабильный детерминированный идентификатор слота.
// Повторные запросы дают те же значения, поэтому клиент может ссылаться
// на слот при создании холда.
func MakeSlotID(teamMemberID int64, date time.Time, start types.TimeString) string {
	return fmt.Sprintf("%d-%s-%s", teamMemberID, date.Format(DateFormat), start)
}
