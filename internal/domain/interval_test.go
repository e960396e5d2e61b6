package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

func iv(t *testing.T, start, end string) TimeInterval {
	t.Helper()

	interval, err := NewTimeIntervalFromBounds(types.TimeString(start), types.TimeString(end))
	require.NoError(t, err)
	return interval
}

func TestNewTimeInterval(t *testing.T) {
	interval, err := NewTimeInterval("10:00", 45)
	require.NoError(t, err)
	assert.Equal(t, "10:00-10:45", interval.String())
	assert.Equal(t, 45, interval.DurationMinutes())

	_, err = NewTimeInterval("10:00", 0)
	assert.Error(t, err)

	_, err = NewTimeInterval("10:00", -30)
	assert.Error(t, err)

	// Выход за пределы суток
	_, err = NewTimeInterval("23:30", 60)
	assert.Error(t, err)
}

func TestNewTimeIntervalFromBounds(t *testing.T) {
	_, err := NewTimeIntervalFromBounds("10:00", "10:00")
	assert.Error(t, err, "вырожденный интервал недопустим")

	_, err = NewTimeIntervalFromBounds("11:00", "10:00")
	assert.Error(t, err)

	_, err = NewTimeIntervalFromBounds("25:00", "26:00")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeInterval
		b    TimeInterval
		want bool
	}{
		{"частичное пересечение", iv(t, "10:00", "11:00"), iv(t, "10:30", "11:30"), true},
		{"вложенный интервал", iv(t, "09:00", "18:00"), iv(t, "12:00", "13:00"), true},
		{"совпадающие интервалы", iv(t, "10:00", "11:00"), iv(t, "10:00", "11:00"), true},
		{"встык не пересекаются", iv(t, "09:00", "10:00"), iv(t, "10:00", "11:00"), false},
		{"встык в обратном порядке", iv(t, "10:00", "11:00"), iv(t, "09:00", "10:00"), false},
		{"далеко друг от друга", iv(t, "09:00", "10:00"), iv(t, "14:00", "15:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "пересечение симметрично")
		})
	}
}

func TestContains(t *testing.T) {
	window := iv(t, "09:00", "18:00")

	assert.True(t, window.Contains(iv(t, "10:00", "11:00")))
	assert.True(t, window.Contains(iv(t, "09:00", "18:00")), "интервал содержит сам себя")
	assert.True(t, window.Contains(iv(t, "17:00", "18:00")), "правая граница включительно")
	assert.False(t, window.Contains(iv(t, "08:00", "10:00")))
	assert.False(t, window.Contains(iv(t, "17:30", "18:30")))
	assert.False(t, iv(t, "10:00", "11:00").Contains(window))
}

func TestSubtract(t *testing.T) {
	day := iv(t, "09:00", "18:00")

	t.Run("без пересечения возвращает исходный", func(t *testing.T) {
		got := day.Subtract(iv(t, "19:00", "20:00"))
		require.Len(t, got, 1)
		assert.Equal(t, "09:00-18:00", got[0].String())
	})

	t.Run("вычитание из середины режет надвое", func(t *testing.T) {
		got := day.Subtract(iv(t, "13:00", "14:00"))
		require.Len(t, got, 2)
		assert.Equal(t, "09:00-13:00", got[0].String())
		assert.Equal(t, "14:00-18:00", got[1].String())
	})

	t.Run("вычитание с левого края", func(t *testing.T) {
		got := day.Subtract(iv(t, "08:00", "10:00"))
		require.Len(t, got, 1)
		assert.Equal(t, "10:00-18:00", got[0].String())
	})

	t.Run("вычитание с правого края", func(t *testing.T) {
		got := day.Subtract(iv(t, "17:00", "19:00"))
		require.Len(t, got, 1)
		assert.Equal(t, "09:00-17:00", got[0].String())
	})

	t.Run("полное перекрытие даёт пусто", func(t *testing.T) {
		got := day.Subtract(iv(t, "08:00", "19:00"))
		assert.Empty(t, got)
	})
}

func TestSubtractAll(t *testing.T) {
	day := []TimeInterval{iv(t, "09:00", "18:00")}

	got := SubtractAll(day, []TimeInterval{
		iv(t, "13:00", "14:00"),
		iv(t, "16:00", "16:30"),
	})

	require.Len(t, got, 3)
	assert.Equal(t, "09:00-13:00", got[0].String())
	assert.Equal(t, "14:00-16:00", got[1].String())
	assert.Equal(t, "16:30-18:00", got[2].String())
}
