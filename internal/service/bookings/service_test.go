package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	bookingRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/booking"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
)

type stubBookingRepo struct {
	booking       *domain.Booking
	statusUpdated *domain.Booking
}

func (s *stubBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *s.booking
	return &copied, nil
}

func (s *stubBookingRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) GetByCalendarFilter(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	s.statusUpdated = booking
	return nil
}

func (s *stubBookingRepo) Delete(ctx context.Context, id int64) error { return nil }

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

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:           21,
		TeamMemberID: 7,
		ShopID:       1,
		ClientID:     55,
		BookingDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		DurationMin:  45,
		Status:       domain.StatusConfirmed,
	}
}

func newTestService(repo *stubBookingRepo, cs *stubConflictService) *Service {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewService(repo, cs, passthroughTxManager{}, nil, &fixedTime{now: now}, nopLogger{})
}

func TestUpdateStatusCancelsWithReason(t *testing.T) {
	repo := &stubBookingRepo{booking: confirmedBooking()}
	svc := newTestService(repo, &stubConflictService{})

	reason := "клиент передумал"
	resp, err := svc.UpdateStatus(context.Background(), 21, &models.UpdateStatusRequest{
		Status: "cancelled",
		Reason: &reason,
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, repo.statusUpdated)
	require.NotNil(t, repo.statusUpdated.CancellationReason)
	assert.Equal(t, reason, *repo.statusUpdated.CancellationReason)
}

func TestUpdateStatusRejectsOverLongReason(t *testing.T) {
	repo := &stubBookingRepo{booking: confirmedBooking()}
	svc := newTestService(repo, &stubConflictService{})

	reason := strings.Repeat("ж", domain.MaxCancellationReasonLength+1)
	_, err := svc.UpdateStatus(context.Background(), 21, &models.UpdateStatusRequest{
		Status: "cancelled",
		Reason: &reason,
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.statusUpdated, "длинная причина отклоняется до записи")
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	booking := confirmedBooking()
	completedAt := time.Now()
	booking.Status = domain.StatusCompleted
	booking.CompletedAt = &completedAt

	repo := &stubBookingRepo{booking: booking}
	svc := newTestService(repo, &stubConflictService{})

	_, err := svc.UpdateStatus(context.Background(), 21, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusReactivationChecksConflicts(t *testing.T) {
	booking := confirmedBooking()
	cancelledAt := time.Now()
	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &cancelledAt

	t.Run("free slot reactivates", func(t *testing.T) {
		repo := &stubBookingRepo{booking: booking}
		cs := &stubConflictService{}
		svc := newTestService(repo, cs)

		resp, err := svc.UpdateStatus(context.Background(), 21, &models.UpdateStatusRequest{Status: "confirmed"})

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		require.NotNil(t, cs.lastReq, "реактивация проходит проверку конфликтов")
		require.NotNil(t, cs.lastReq.ExcludeBookingID)
		assert.Equal(t, int64(21), *cs.lastReq.ExcludeBookingID)
	})

	t.Run("occupied slot blocks reactivation", func(t *testing.T) {
		repo := &stubBookingRepo{booking: booking}
		cs := &stubConflictService{err: &conflict.ConflictError{Reason: conflict.ReasonBooking, ConflictingID: 42}}
		svc := newTestService(repo, cs)

		_, err := svc.UpdateStatus(context.Background(), 21, &models.UpdateStatusRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrScheduleConflict)
		assert.Nil(t, repo.statusUpdated)
	})
}
