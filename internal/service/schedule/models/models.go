package models

import (
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// WindowPayload окно доступности в запросах и ответах.
// Повторяющееся окно задаётся днём недели (0 - воскресенье), разовое - датой.
type WindowPayload struct {
	Weekday   *int    `json:"weekday,omitempty"`
	Date      *string `json:"date,omitempty"` // "2026-03-12"
	StartTime string  `json:"startTime"`      // "09:00"
	EndTime   string  `json:"endTime"`        // "18:00"
	Recurring bool    `json:"recurring"`
}

// BlockedPayload блокировка времени в запросах и ответах
type BlockedPayload struct {
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    *string `json:"reason,omitempty"`
}

// ScheduleResponse полное расписание мастера в салоне
type ScheduleResponse struct {
	TeamMemberID int64            `json:"teamMemberId"`
	ShopID       int64            `json:"shopId"`
	Windows      []WindowPayload  `json:"windows"`
	Blocked      []BlockedPayload `json:"blocked"`
}

// ReplaceScheduleRequest запрос на полную замену расписания (PUT-семантика)
type ReplaceScheduleRequest struct {
	Windows []WindowPayload  `json:"windows"`
	Blocked []BlockedPayload `json:"blocked"`
}

// ToDomainWindow конвертирует payload в domain модель с валидацией
func (w *WindowPayload) ToDomainWindow(teamMemberID, shopID int64) (*domain.AvailabilityWindow, error) {
	start, err := types.NewTimeStringFromString(w.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime %q: %v", w.StartTime, err)
	}

	end, err := types.NewTimeStringFromString(w.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime %q: %v", w.EndTime, err)
	}

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("window end %s must be after start %s", w.EndTime, w.StartTime)
	}

	window := &domain.AvailabilityWindow{
		TeamMemberID: teamMemberID,
		ShopID:       shopID,
		StartTime:    start,
		EndTime:      end,
		Recurring:    w.Recurring,
	}

	if w.Recurring {
		if w.Weekday == nil {
			return nil, fmt.Errorf("recurring window requires weekday")
		}
		if *w.Weekday < 0 || *w.Weekday > 6 {
			return nil, fmt.Errorf("weekday %d out of range", *w.Weekday)
		}
		wd := time.Weekday(*w.Weekday)
		window.Weekday = &wd
		return window, nil
	}

	if w.Date == nil {
		return nil, fmt.Errorf("one-off window requires date")
	}

	date, err := time.Parse(domain.DateFormat, *w.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %v", *w.Date, err)
	}
	window.WindowDate = &date

	return window, nil
}

// ToDomainBlocked конвертирует payload в domain модель с валидацией
func (b *BlockedPayload) ToDomainBlocked(teamMemberID, shopID int64) (*domain.BlockedTime, error) {
	start, err := types.NewTimeStringFromString(b.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime %q: %v", b.StartTime, err)
	}

	end, err := types.NewTimeStringFromString(b.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime %q: %v", b.EndTime, err)
	}

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("blocked end %s must be after start %s", b.EndTime, b.StartTime)
	}

	date, err := time.Parse(domain.DateFormat, b.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %v", b.Date, err)
	}

	return &domain.BlockedTime{
		TeamMemberID: teamMemberID,
		ShopID:       shopID,
		BlockDate:    date,
		StartTime:    start,
		EndTime:      end,
		Reason:       b.Reason,
	}, nil
}

// FromDomainWindow конвертирует domain модель в payload
func FromDomainWindow(w *domain.AvailabilityWindow) WindowPayload {
	payload := WindowPayload{
		StartTime: w.StartTime.String(),
		EndTime:   w.EndTime.String(),
		Recurring: w.Recurring,
	}

	if w.Weekday != nil {
		wd := int(*w.Weekday)
		payload.Weekday = &wd
	}
	if w.WindowDate != nil {
		d := w.WindowDate.Format(domain.DateFormat)
		payload.Date = &d
	}

	return payload
}

// FromDomainBlocked конвертирует domain модель в payload
func FromDomainBlocked(b *domain.BlockedTime) BlockedPayload {
	return BlockedPayload{
		Date:      b.BlockDate.Format(domain.DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Reason:    b.Reason,
	}
}
