package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	getAvailableSlots "github.com/ev4kov/SBP-BookingEngine/internal/usecase/get_available_slots"
)

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"09:05", "9:05 AM"},
		{"12:00", "12:00 PM"},
		{"14:30", "2:30 PM"},
		{"23:45", "11:45 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, displayTime(tt.in))
		})
	}
}

func TestFromUseCaseResponsePopulatesDisplayTimes(t *testing.T) {
	resp := &getAvailableSlots.Response{
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		ShopID:       1,
		TeamMemberID: 3,
		ServiceID:    11,
		DurationMin:  45,
		Slots: []*domain.Slot{
			{SlotID: "3-20260312-0900", StartTime: "09:00", EndTime: "09:45", IsAvailable: true},
			{SlotID: "3-20260312-1330", StartTime: "13:30", EndTime: "14:15", IsAvailable: false},
		},
	}

	got := FromUseCaseResponse(resp)

	require.Len(t, got.Slots, 2)
	assert.Equal(t, "2026-03-12", got.Date)
	assert.Equal(t, 45, got.DurationMinutes)

	first := got.Slots[0]
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "9:00 AM", first.DisplayTime)
	assert.Equal(t, "09:45", first.EndTime)
	assert.Equal(t, "9:45 AM", first.DisplayEndTime)
	assert.True(t, first.IsAvailable)

	second := got.Slots[1]
	assert.Equal(t, "1:30 PM", second.DisplayTime)
	assert.Equal(t, "2:15 PM", second.DisplayEndTime)
	assert.False(t, second.IsAvailable)
}
