package get_available_slots

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// buildFragments строит свободные фрагменты рабочего дня: окна доступности
// на дату за вычетом блокировок времени
func buildFragments(
	windows []*domain.AvailabilityWindow,
	blocked []*domain.BlockedTime,
	date time.Time,
) []domain.TimeInterval {
	blockedIntervals := make([]domain.TimeInterval, 0, len(blocked))
	for _, b := range blocked {
		blockedIntervals = append(blockedIntervals, b.Interval())
	}

	fragments := make([]domain.TimeInterval, 0, len(windows))
	for _, w := range windows {
		if !w.AppliesTo(date) {
			continue
		}
		fragments = append(fragments, domain.SubtractAll([]domain.TimeInterval{w.Interval()}, blockedIntervals)...)
	}

	return fragments
}

// generateCandidates генерирует стартовые времена слотов по фрагментам.
// Сетка в каждом фрагменте начинается с его начала и идёт с шагом step;
// слот попадает в выдачу, только если услуга целиком помещается во фрагмент.
// После блокировки сетка "сдвигается": фрагмент 10:20-12:00 при шаге 15
// даёт 10:20, 10:35 и так далее.
func generateCandidates(fragments []domain.TimeInterval, durationMin, stepMinutes int) []types.TimeString {
	candidates := make([]types.TimeString, 0)

	for _, f := range fragments {
		current := f.Start

		for current.IsBefore(f.End) {
			slotEnd, err := current.AddMinutes(durationMin)
			if err != nil {
				break
			}
			if slotEnd.IsAfter(f.End) {
				break
			}

			candidates = append(candidates, current)

			current, err = current.AddMinutes(stepMinutes)
			if err != nil {
				break
			}
		}
	}

	return candidates
}

// filterMinNotice отбрасывает слоты, начинающиеся раньше, чем через
// minNoticeMinutes от текущего момента. Действует только на сегодняшнюю
// дату (now уже в поясе салона).
func filterMinNotice(candidates []types.TimeString, date, now time.Time, minNoticeMinutes int) []types.TimeString {
	if !isSameDay(date, now) {
		return candidates
	}

	currentTime := types.NewTimeString(now)
	minAllowed, err := currentTime.AddMinutes(minNoticeMinutes)
	if err != nil {
		// Порог ушёл за полночь - на сегодня слотов не осталось
		return []types.TimeString{}
	}

	filtered := make([]types.TimeString, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsBefore(minAllowed) {
			filtered = append(filtered, c)
		}
	}

	return filtered
}

// buildSlots превращает стартовые времена в слоты с флагами доступности.
// Слот недоступен, если пересекается с занимающей календарь бронью или
// живым холдом чужой сессии.
func buildSlots(
	candidates []types.TimeString,
	durationMin int,
	teamMemberID int64,
	date time.Time,
	bookings []*domain.Booking,
	holds []*domain.Hold,
	sessionID *string,
) []*domain.Slot {
	busy := make([]domain.TimeInterval, 0, len(bookings)+len(holds))

	for _, b := range bookings {
		if !b.OccupiesCalendar() {
			continue
		}
		interval, err := b.Interval()
		if err != nil {
			continue
		}
		busy = append(busy, interval)
	}

	for _, h := range holds {
		if sessionID != nil && h.OwnedBy(*sessionID) {
			continue
		}
		busy = append(busy, h.Interval())
	}

	slots := make([]*domain.Slot, 0, len(candidates))

	for _, start := range candidates {
		end, err := start.AddMinutes(durationMin)
		if err != nil {
			continue
		}

		slot := &domain.Slot{
			SlotID:      domain.MakeSlotID(teamMemberID, date, start),
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		}

		candidate := domain.TimeInterval{Start: start, End: end}
		for _, b := range busy {
			if candidate.Overlaps(b) {
				slot.IsAvailable = false
				break
			}
		}

		slots = append(slots, slot)
	}

	return slots
}
