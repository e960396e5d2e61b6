package conflict

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (s *stubBookingRepo) GetByCalendarFilter(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error) {
	return s.bookings, nil
}

type stubHoldRepo struct {
	holds []*domain.Hold
}

func (s *stubHoldRepo) GetLiveByMemberAndDate(ctx context.Context, teamMemberID int64, date, now time.Time) ([]*domain.Hold, error) {
	live := make([]*domain.Hold, 0, len(s.holds))
	for _, h := range s.holds {
		if !h.IsExpired(now) {
			live = append(live, h)
		}
	}
	return live, nil
}

type stubScheduleRepo struct {
	windows []*domain.AvailabilityWindow
	blocked []*domain.BlockedTime
}

func (s *stubScheduleRepo) GetWindowsForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.AvailabilityWindow, error) {
	return s.windows, nil
}

func (s *stubScheduleRepo) GetBlockedForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.BlockedTime, error) {
	return s.blocked, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func interval(t *testing.T, start, end string) domain.TimeInterval {
	t.Helper()
	i, err := domain.NewTimeIntervalFromBounds(mustTime(t, start), mustTime(t, end))
	require.NoError(t, err)
	return i
}

func confirmedBooking(t *testing.T, id int64, start string, durationMin int) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		ID:          id,
		StartTime:   mustTime(t, start),
		DurationMin: durationMin,
		Status:      domain.StatusConfirmed,
	}
}

func TestValidatePlacement_Bookings(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		bookings []*domain.Booking
		req      *PlacementRequest
		reason   string
		wantID   int64
	}{
		{
			name:     "free day allows placement",
			bookings: nil,
			req: &PlacementRequest{
				TeamMemberID: 7,
				Date:         date,
				Interval:     interval(t, "10:00", "10:45"),
			},
		},
		{
			name:     "overlapping booking rejects",
			bookings: []*domain.Booking{confirmedBooking(t, 42, "10:00", 60)},
			req: &PlacementRequest{
				TeamMemberID: 7,
				Date:         date,
				Interval:     interval(t, "10:30", "11:15"),
			},
			reason: ReasonBooking,
			wantID: 42,
		},
		{
			name:     "adjacent booking does not conflict",
			bookings: []*domain.Booking{confirmedBooking(t, 42, "10:00", 60)},
			req: &PlacementRequest{
				TeamMemberID: 7,
				Date:         date,
				Interval:     interval(t, "11:00", "11:45"),
			},
		},
		{
			name:     "excluded booking is ignored",
			bookings: []*domain.Booking{confirmedBooking(t, 42, "10:00", 60)},
			req: &PlacementRequest{
				TeamMemberID:     7,
				Date:             date,
				Interval:         interval(t, "10:15", "11:00"),
				ExcludeBookingID: ptr.Ptr(int64(42)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(
				&stubBookingRepo{bookings: tt.bookings},
				&stubHoldRepo{},
				&stubScheduleRepo{},
				nil,
				nopLogger{},
			)

			err := svc.ValidatePlacement(context.Background(), tt.req, now)

			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			ce, ok := IsConflict(err)
			require.True(t, ok, "expected conflict error, got %v", err)
			assert.Equal(t, tt.reason, ce.Reason)
			assert.Equal(t, tt.wantID, ce.ConflictingID)
		})
	}
}

func TestValidatePlacement_Holds(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	liveHold := &domain.Hold{
		SessionID:    "sess-other",
		TeamMemberID: 7,
		HoldDate:     date,
		StartTime:    mustTime(t, "10:00"),
		EndTime:      mustTime(t, "10:45"),
		ExpiresAt:    now.Add(5 * time.Minute),
	}
	expiredHold := &domain.Hold{
		SessionID:    "sess-stale",
		TeamMemberID: 7,
		HoldDate:     date,
		StartTime:    mustTime(t, "10:00"),
		EndTime:      mustTime(t, "10:45"),
		ExpiresAt:    now.Add(-time.Minute),
	}

	tests := []struct {
		name    string
		holds   []*domain.Hold
		session *string
		reason  string
	}{
		{
			name:    "foreign live hold rejects",
			holds:   []*domain.Hold{liveHold},
			session: ptr.Ptr("sess-mine"),
			reason:  ReasonHold,
		},
		{
			name:    "own hold does not conflict",
			holds:   []*domain.Hold{liveHold},
			session: ptr.Ptr("sess-other"),
		},
		{
			name:    "expired hold is invisible",
			holds:   []*domain.Hold{expiredHold},
			session: ptr.Ptr("sess-mine"),
		},
		{
			name:   "anonymous request still blocked by live hold",
			holds:  []*domain.Hold{liveHold},
			reason: ReasonHold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(
				&stubBookingRepo{},
				&stubHoldRepo{holds: tt.holds},
				&stubScheduleRepo{},
				nil,
				nopLogger{},
			)

			err := svc.ValidatePlacement(context.Background(), &PlacementRequest{
				TeamMemberID: 7,
				Date:         date,
				Interval:     interval(t, "10:30", "11:15"),
				SessionID:    tt.session,
			}, now)

			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			ce, ok := IsConflict(err)
			require.True(t, ok, "expected conflict error, got %v", err)
			assert.Equal(t, tt.reason, ce.Reason)
		})
	}
}

func TestValidatePlacement_Window(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC) // четверг
	weekday := date.Weekday()

	window := &domain.AvailabilityWindow{
		TeamMemberID: 7,
		Weekday:      &weekday,
		StartTime:    mustTime(t, "09:00"),
		EndTime:      mustTime(t, "18:00"),
		Recurring:    true,
	}
	lunch := &domain.BlockedTime{
		TeamMemberID: 7,
		BlockDate:    date,
		StartTime:    mustTime(t, "13:00"),
		EndTime:      mustTime(t, "14:00"),
	}

	tests := []struct {
		name    string
		windows []*domain.AvailabilityWindow
		blocked []*domain.BlockedTime
		place   domain.TimeInterval
		reason  string
	}{
		{
			name:    "inside window ok",
			windows: []*domain.AvailabilityWindow{window},
			place:   interval(t, "10:00", "10:45"),
		},
		{
			name:    "before window rejected",
			windows: []*domain.AvailabilityWindow{window},
			place:   interval(t, "08:00", "08:45"),
			reason:  ReasonOutsideWindow,
		},
		{
			name:    "straddling window end rejected",
			windows: []*domain.AvailabilityWindow{window},
			place:   interval(t, "17:30", "18:15"),
			reason:  ReasonOutsideWindow,
		},
		{
			name:    "no windows at all rejected",
			windows: nil,
			place:   interval(t, "10:00", "10:45"),
			reason:  ReasonOutsideWindow,
		},
		{
			name:    "overlapping lunch rejected as blocked",
			windows: []*domain.AvailabilityWindow{window},
			blocked: []*domain.BlockedTime{lunch},
			place:   interval(t, "12:30", "13:15"),
			reason:  ReasonBlocked,
		},
		{
			name:    "right after lunch ok",
			windows: []*domain.AvailabilityWindow{window},
			blocked: []*domain.BlockedTime{lunch},
			place:   interval(t, "14:00", "14:45"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(
				&stubBookingRepo{},
				&stubHoldRepo{},
				&stubScheduleRepo{windows: tt.windows, blocked: tt.blocked},
				nil,
				nopLogger{},
			)

			err := svc.ValidatePlacement(context.Background(), &PlacementRequest{
				ShopID:        1,
				TeamMemberID:  7,
				Date:          date,
				Interval:      tt.place,
				RequireWindow: true,
			}, now)

			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			ce, ok := IsConflict(err)
			require.True(t, ok, "expected conflict error, got %v", err)
			assert.Equal(t, tt.reason, ce.Reason)
		})
	}
}
