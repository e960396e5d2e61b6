package domain

import (
	"fmt"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// TimeInterval полуоткрытый интервал [Start, End) в локальном времени салона.
// Вся интервальная арифметика движка выражается через этот тип, чтобы не было
// разрозненных вычислений над строками и time.Time.
type TimeInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeInterval создает интервал из времени начала и длительности в минутах
func NewTimeInterval(start types.TimeString, durationMin int) (TimeInterval, error) {
	if durationMin <= 0 {
		return TimeInterval{}, fmt.Errorf("interval duration must be positive, got %d", durationMin)
	}

	end, err := start.AddMinutes(durationMin)
	if err != nil {
		return TimeInterval{}, err
	}

	return TimeInterval{Start: start, End: end}, nil
}

// NewTimeIntervalFromBounds создает интервал из границ с проверкой start < end
func NewTimeIntervalFromBounds(start, end types.TimeString) (TimeInterval, error) {
	if err := start.Validate(); err != nil {
		return TimeInterval{}, err
	}
	if err := end.Validate(); err != nil {
		return TimeInterval{}, err
	}
	if !start.IsBefore(end) {
		return TimeInterval{}, fmt.Errorf("interval start %s must be before end %s", start, end)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// DurationMinutes возвращает длительность интервала в минутах
func (i TimeInterval) DurationMinutes() int {
	startMin, err1 := i.Start.Minutes()
	endMin, err2 := i.End.Minutes()
	if err1 != nil || err2 != nil {
		return 0
	}
	return endMin - startMin
}

// Overlaps возвращает true, если интервалы действительно пересекаются.
// Граничащие интервалы ([09:00,10:00) и [10:00,11:00)) не пересекаются.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains возвращает true, если other полностью лежит внутри интервала
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.IsBefore(i.Start) && !i.End.IsBefore(other.End)
}

// Subtract вычитает blocked из интервала. Результат - от нуля до двух
// подинтервалов: вычитание из середины разрезает интервал надвое.
func (i TimeInterval) Subtract(blocked TimeInterval) []TimeInterval {
	if !i.Overlaps(blocked) {
		return []TimeInterval{i}
	}

	result := make([]TimeInterval, 0, 2)

	if i.Start.IsBefore(blocked.Start) {
		result = append(result, TimeInterval{Start: i.Start, End: blocked.Start})
	}
	if blocked.End.IsBefore(i.End) {
		result = append(result, TimeInterval{Start: blocked.End, End: i.End})
	}

	return result
}

// SubtractAll вычитает из интервалов все блокировки
func SubtractAll(intervals []TimeInterval, blocked []TimeInterval) []TimeInterval {
	result := intervals
	for _, b := range blocked {
		next := make([]TimeInterval, 0, len(result))
		for _, iv := range result {
			next = append(next, iv.Subtract(b)...)
		}
		result = next
	}
	return result
}

// String возвращает строковое представление "HH:MM-HH:MM"
func (i TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}
