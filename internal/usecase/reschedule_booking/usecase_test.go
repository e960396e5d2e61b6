package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	bookingStorage "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/booking"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

type stubBookingRepo struct {
	booking *domain.Booking

	updatedDate     time.Time
	updatedStart    types.TimeString
	updatedDuration int
}

func (s *stubBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingStorage.ErrBookingNotFound
	}
	b := *s.booking
	return &b, nil
}

func (s *stubBookingRepo) UpdateSchedule(ctx context.Context, id int64, date time.Time, start types.TimeString, durationMin int) error {
	s.updatedDate = date
	s.updatedStart = start
	s.updatedDuration = durationMin
	return nil
}

type stubConflictService struct {
	err     error
	lastReq *conflict.PlacementRequest
}

func (s *stubConflictService) ValidatePlacement(ctx context.Context, req *conflict.PlacementRequest, now time.Time) error {
	s.lastReq = req
	return s.err
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func testBooking(t *testing.T) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		ID:           10,
		TeamMemberID: 7,
		ShopID:       1,
		BookingDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:    ts(t, "10:00"),
		DurationMin:  45,
		Status:       domain.StatusConfirmed,
	}
}

func newTestUseCase(repo *stubBookingRepo, cs *stubConflictService) *UseCase {
	return NewUseCase(repo, cs, passthroughTxManager{}, nil, nopLogger{}).
		WithTimeProvider(&fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)})
}

func TestExecute_Move(t *testing.T) {
	repo := &stubBookingRepo{booking: testBooking(t)}
	cs := &stubConflictService{}
	uc := newTestUseCase(repo, cs)

	newDate := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 10,
		Command:   CommandMove,
		NewDate:   &newDate,
		NewStart:  ptr.Ptr(ts(t, "14:00")),
		StaffID:   ptr.Ptr(int64(9)),
	})

	require.NoError(t, err)
	assert.Equal(t, newDate, repo.updatedDate)
	assert.Equal(t, "14:00", repo.updatedStart.String())
	// move сохраняет длительность
	assert.Equal(t, 45, repo.updatedDuration)
	assert.Equal(t, "14:45", resp.Booking.EndTime)

	// Бронь исключена из собственной проверки пересечений
	require.NotNil(t, cs.lastReq)
	require.NotNil(t, cs.lastReq.ExcludeBookingID)
	assert.Equal(t, int64(10), *cs.lastReq.ExcludeBookingID)
	// staff-путь не требует рабочего окна
	assert.False(t, cs.lastReq.RequireWindow)
}

func TestExecute_ResizeStart(t *testing.T) {
	repo := &stubBookingRepo{booking: testBooking(t)}
	uc := newTestUseCase(repo, &stubConflictService{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 10,
		Command:   CommandResizeStart,
		NewStart:  ptr.Ptr(ts(t, "09:30")),
	})

	require.NoError(t, err)
	// Конец 10:45 сохранён, длительность выросла
	assert.Equal(t, "09:30", repo.updatedStart.String())
	assert.Equal(t, 75, repo.updatedDuration)
	assert.Equal(t, "10:45", resp.Booking.EndTime)
}

func TestExecute_ResizeEnd(t *testing.T) {
	repo := &stubBookingRepo{booking: testBooking(t)}
	uc := newTestUseCase(repo, &stubConflictService{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 10,
		Command:   CommandResizeEnd,
		NewEnd:    ptr.Ptr(ts(t, "11:30")),
	})

	require.NoError(t, err)
	// Начало сохранено, длительность 90 минут
	assert.Equal(t, "10:00", repo.updatedStart.String())
	assert.Equal(t, 90, repo.updatedDuration)
	assert.Equal(t, "11:30", resp.Booking.EndTime)
}

func TestExecute_Rejections(t *testing.T) {
	t.Run("unknown booking", func(t *testing.T) {
		uc := newTestUseCase(&stubBookingRepo{}, &stubConflictService{})

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 10,
			Command:   CommandMove,
			NewStart:  ptr.Ptr(ts(t, "14:00")),
		})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("cancelled booking is immovable", func(t *testing.T) {
		booking := testBooking(t)
		booking.Status = domain.StatusCancelled

		uc := newTestUseCase(&stubBookingRepo{booking: booking}, &stubConflictService{})

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 10,
			Command:   CommandMove,
			NewStart:  ptr.Ptr(ts(t, "14:00")),
		})
		assert.ErrorIs(t, err, ErrNotReschedulable)
	})

	t.Run("conflict rolls back", func(t *testing.T) {
		repo := &stubBookingRepo{booking: testBooking(t)}
		cs := &stubConflictService{err: &conflict.ConflictError{Reason: conflict.ReasonBooking, ConflictingID: 3}}

		uc := newTestUseCase(repo, cs)

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 10,
			Command:   CommandMove,
			NewStart:  ptr.Ptr(ts(t, "14:00")),
		})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Zero(t, repo.updatedDuration)
	})

	t.Run("degenerate resize rejected", func(t *testing.T) {
		uc := newTestUseCase(&stubBookingRepo{booking: testBooking(t)}, &stubConflictService{})

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 10,
			Command:   CommandResizeEnd,
			NewEnd:    ptr.Ptr(ts(t, "10:00")),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
