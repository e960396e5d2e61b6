package domain

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Hold короткоживущая эксклюзивная заявка сессии на слот.
// У сессии не больше одного живого холда; выбор другого слота заменяет старый.
type Hold struct {
	SessionID    string
	TeamMemberID int64
	ShopID       int64
	HoldDate     time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Interval возвращает удерживаемый интервал
func (h *Hold) Interval() TimeInterval {
	return TimeInterval{Start: h.StartTime, End: h.EndTime}
}

// IsExpired проверяет, истёк ли холд к моменту now.
// Истёкший холд считается отсутствующим во всех проверках пересечений,
// независимо от того, удалён ли он физически.
func (h *Hold) IsExpired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// OwnedBy проверяет принадлежность холда сессии
func (h *Hold) OwnedBy(sessionID string) bool {
	return h.SessionID == sessionID
}
