package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusCancelled, StatusConfirmed, true},
		{StatusNoShow, StatusConfirmed, true},

		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusNoShow, false},
		{StatusNoShow, StatusCompleted, false},
		{StatusConfirmed, StatusConfirmed, false},
		{BookingStatus("unknown"), StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestApplyTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

	t.Run("отмена проставляет cancelled_at", func(t *testing.T) {
		b := &Booking{Status: StatusConfirmed}
		require.NoError(t, ApplyTransition(b, StatusCancelled, now))
		assert.Equal(t, StatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, now, *b.CancelledAt)
	})

	t.Run("завершение проставляет completed_at", func(t *testing.T) {
		b := &Booking{Status: StatusConfirmed}
		require.NoError(t, ApplyTransition(b, StatusCompleted, now))
		require.NotNil(t, b.CompletedAt)
	})

	t.Run("неявка проставляет no_show_at", func(t *testing.T) {
		b := &Booking{Status: StatusConfirmed}
		require.NoError(t, ApplyTransition(b, StatusNoShow, now))
		require.NotNil(t, b.NoShowAt)
	})
}

func TestApplyTransitionReactivationClearsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	reason := "клиент передумал"

	t.Run("реактивация из cancelled чистит метку и причину", func(t *testing.T) {
		cancelledAt := now.Add(-time.Hour)
		b := &Booking{
			Status:             StatusCancelled,
			CancelledAt:        &cancelledAt,
			CancellationReason: &reason,
		}

		require.NoError(t, ApplyTransition(b, StatusConfirmed, now))
		assert.Equal(t, StatusConfirmed, b.Status)
		assert.Nil(t, b.CancelledAt)
		assert.Nil(t, b.CancellationReason)
	})

	t.Run("реактивация из no_show чистит метку", func(t *testing.T) {
		noShowAt := now.Add(-time.Hour)
		b := &Booking{Status: StatusNoShow, NoShowAt: &noShowAt}

		require.NoError(t, ApplyTransition(b, StatusConfirmed, now))
		assert.Nil(t, b.NoShowAt)
	})
}

func TestApplyTransitionRejectsInvalid(t *testing.T) {
	completedAt := time.Now()
	b := &Booking{Status: StatusCompleted, CompletedAt: &completedAt}

	err := ApplyTransition(b, StatusCancelled, time.Now())
	require.ErrorIs(t, err, ErrStateTransition)
	assert.Equal(t, StatusCompleted, b.Status, "статус не меняется при отказе")
	assert.NotNil(t, b.CompletedAt)
}

func TestParseBookingStatus(t *testing.T) {
	for _, valid := range []string{"confirmed", "completed", "cancelled", "no_show"} {
		status, err := ParseBookingStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, BookingStatus(valid), status)
	}

	_, err := ParseBookingStatus("pending")
	assert.Error(t, err)

	_, err = ParseBookingStatus("")
	assert.Error(t, err)
}
