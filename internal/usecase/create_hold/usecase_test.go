package create_hold

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

type stubHoldRepo struct {
	upserted *domain.Hold
}

func (s *stubHoldRepo) Upsert(ctx context.Context, h *domain.Hold) (*domain.Hold, error) {
	s.upserted = h
	h.CreatedAt = time.Now()
	return h, nil
}

type stubConflictService struct {
	err error
}

func (s *stubConflictService) ValidatePlacement(ctx context.Context, req *conflict.PlacementRequest, now time.Time) error {
	return s.err
}

type stubCatalog struct {
	shop    *catalogservice.Shop
	service *catalogservice.Service
}

func (s *stubCatalog) GetShop(ctx context.Context, shopID int64) (*catalogservice.Shop, error) {
	if s.shop == nil {
		return nil, catalogservice.ErrShopNotFound
	}
	return s.shop, nil
}

func (s *stubCatalog) GetService(ctx context.Context, shopID, serviceID int64) (*catalogservice.Service, error) {
	if s.service == nil {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s.service, nil
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

type countingMetrics struct {
	created   int
	conflicts int
}

func (m *countingMetrics) RecordHoldCreated()  { m.created++ }
func (m *countingMetrics) RecordHoldConflict() { m.conflicts++ }

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

func testCatalog() *stubCatalog {
	return &stubCatalog{
		shop: &catalogservice.Shop{ID: 1, Name: "Салон", Timezone: "UTC"},
		service: &catalogservice.Service{
			ID: 3, ShopID: 1, Name: "Стрижка", BaseDurationMin: 45, BasePrice: 1500,
		},
	}
}

func validRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		SessionID:    "sess-1",
		ShopID:       1,
		TeamMemberID: 7,
		ServiceID:    3,
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:    ts(t, "10:00"),
	}
}

func TestExecute_CreatesHold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubHoldRepo{}
	metrics := &countingMetrics{}

	uc := NewUseCase(repo, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, metrics, nopLogger{}, 10, 0).
		WithTimeProvider(&fixedTime{now: now})

	resp, err := uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "sess-1", repo.upserted.SessionID)
	assert.Equal(t, "10:00", repo.upserted.StartTime.String())
	assert.Equal(t, "10:45", repo.upserted.EndTime.String())
	assert.Equal(t, now.Add(10*time.Minute), repo.upserted.ExpiresAt)

	assert.Equal(t, "7-2026-03-12-10:00", resp.SlotID)
	assert.Equal(t, 600, resp.TTLSeconds)
	assert.Equal(t, 1, metrics.created)
	assert.Equal(t, 0, metrics.conflicts)
}

func TestExecute_ConflictMapping(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		conflict error
		expected error
	}{
		{
			name:     "foreign hold maps to ErrSlotHeld",
			conflict: &conflict.ConflictError{Reason: conflict.ReasonHold},
			expected: ErrSlotHeld,
		},
		{
			name:     "booking overlap maps to ErrSlotNotAvailable",
			conflict: &conflict.ConflictError{Reason: conflict.ReasonBooking, ConflictingID: 42},
			expected: ErrSlotNotAvailable,
		},
		{
			name:     "outside window maps to ErrSlotNotAvailable",
			conflict: &conflict.ConflictError{Reason: conflict.ReasonOutsideWindow},
			expected: ErrSlotNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubHoldRepo{}
			metrics := &countingMetrics{}

			uc := NewUseCase(repo, &stubConflictService{err: tt.conflict}, testCatalog(), passthroughTxManager{}, nil, metrics, nopLogger{}, 10, 0).
				WithTimeProvider(&fixedTime{now: now})

			_, err := uc.Execute(context.Background(), validRequest(t))

			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, repo.upserted)
			assert.Equal(t, 1, metrics.conflicts)
		})
	}
}

func TestExecute_TimeValidation(t *testing.T) {
	t.Run("past date rejected", func(t *testing.T) {
		now := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
		uc := NewUseCase(&stubHoldRepo{}, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, nil, nopLogger{}, 10, 0).
			WithTimeProvider(&fixedTime{now: now})

		_, err := uc.Execute(context.Background(), validRequest(t))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("today inside notice period rejected", func(t *testing.T) {
		now := time.Date(2026, 3, 12, 9, 45, 0, 0, time.UTC)
		uc := NewUseCase(&stubHoldRepo{}, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, nil, nopLogger{}, 10, 30).
			WithTimeProvider(&fixedTime{now: now})

		_, err := uc.Execute(context.Background(), validRequest(t))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("today outside notice period accepted", func(t *testing.T) {
		now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
		uc := NewUseCase(&stubHoldRepo{}, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, nil, nopLogger{}, 10, 30).
			WithTimeProvider(&fixedTime{now: now})

		_, err := uc.Execute(context.Background(), validRequest(t))
		assert.NoError(t, err)
	})

	t.Run("missing session rejected", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		uc := NewUseCase(&stubHoldRepo{}, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, nil, nopLogger{}, 10, 0).
			WithTimeProvider(&fixedTime{now: now})

		req := validRequest(t)
		req.SessionID = ""

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("over-long session rejected before storage", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		repo := &stubHoldRepo{}
		uc := NewUseCase(repo, &stubConflictService{}, testCatalog(), passthroughTxManager{}, nil, nil, nopLogger{}, 10, 0).
			WithTimeProvider(&fixedTime{now: now})

		req := validRequest(t)
		req.SessionID = strings.Repeat("x", domain.MaxSessionIDLength+1)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, repo.upserted)
	})
}
