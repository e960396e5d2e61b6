package domain

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// AvailabilityWindow интервал, в который мастер может быть записан в салоне.
// Либо повторяющееся окно (Recurring=true, Weekday задан), либо окно на
// конкретную дату (Recurring=false, WindowDate задана).
type AvailabilityWindow struct {
	ID           int64
	TeamMemberID int64
	ShopID       int64
	Weekday      *time.Weekday // для повторяющихся окон
	WindowDate   *time.Time    // для окон на конкретную дату
	StartTime    types.TimeString
	EndTime      types.TimeString
	Recurring    bool
}

// Interval возвращает интервал окна
func (w *AvailabilityWindow) Interval() TimeInterval {
	return TimeInterval{Start: w.StartTime, End: w.EndTime}
}

// AppliesTo проверяет, действует ли окно на указанную дату
func (w *AvailabilityWindow) AppliesTo(date time.Time) bool {
	if w.Recurring {
		return w.Weekday != nil && *w.Weekday == date.Weekday()
	}
	if w.WindowDate == nil {
		return false
	}
	y1, m1, d1 := w.WindowDate.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// BlockedTime интервал, вычитаемый из доступности (отгул, административная блокировка)
type BlockedTime struct {
	ID           int64
	TeamMemberID int64
	ShopID       int64
	BlockDate    time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Reason       *string
}

// Interval возвращает интервал блокировки
func (b *BlockedTime) Interval() TimeInterval {
	return TimeInterval{Start: b.StartTime, End: b.EndTime}
}
