package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
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
	return s.holds, nil
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

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestUseCase(t *testing.T, bookings *stubBookingRepo, holds *stubHoldRepo, sched *stubScheduleRepo, catalog *stubCatalog, now time.Time) *UseCase {
	t.Helper()
	return NewUseCase(bookings, holds, sched, catalog, nil, nopLogger{}, 15, 0).
		WithTimeProvider(&fixedTime{now: now})
}

func testShop() *catalogservice.Shop {
	return &catalogservice.Shop{ID: 1, Name: "Тестовый салон", Timezone: "UTC"}
}

func testService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:              3,
		ShopID:          1,
		Name:            "Стрижка",
		BaseDurationMin: 45,
		BasePrice:       1500,
		Variants: []catalogservice.ServiceVariant{
			{ID: 9, Name: "Длинные волосы", DurationDelta: 15, PriceDelta: 500},
		},
	}
}

func TestExecute_FullDay(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	weekday := date.Weekday()

	sched := &stubScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: &weekday, StartTime: ts(t, "09:00"), EndTime: ts(t, "12:00"), Recurring: true},
		},
	}
	bookings := &stubBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, StartTime: ts(t, "09:45"), DurationMin: 45, Status: domain.StatusConfirmed},
		},
	}

	uc := newTestUseCase(t, bookings, &stubHoldRepo{}, sched, &stubCatalog{shop: testShop(), service: testService()}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ShopID:       1,
		TeamMemberID: 7,
		ServiceID:    3,
		Date:         date,
	})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.DurationMin)

	// Окно 09:00-12:00, услуга 45 минут, шаг 15: старты 09:00..11:15
	require.Len(t, resp.Slots, 10)

	byStart := make(map[string]bool)
	for _, s := range resp.Slots {
		byStart[s.StartTime.String()] = s.IsAvailable
	}

	// Бронь 09:45-10:30 закрывает все пересекающиеся старты
	assert.True(t, byStart["09:00"])
	assert.False(t, byStart["09:15"])
	assert.False(t, byStart["09:30"])
	assert.False(t, byStart["09:45"])
	assert.False(t, byStart["10:00"])
	assert.False(t, byStart["10:15"])
	assert.True(t, byStart["10:30"])
	assert.True(t, byStart["11:15"])
}

func TestExecute_VariantExtendsDuration(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	weekday := date.Weekday()

	sched := &stubScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: &weekday, StartTime: ts(t, "09:00"), EndTime: ts(t, "10:00"), Recurring: true},
		},
	}

	uc := newTestUseCase(t, &stubBookingRepo{}, &stubHoldRepo{}, sched, &stubCatalog{shop: testShop(), service: testService()}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ShopID:       1,
		TeamMemberID: 7,
		ServiceID:    3,
		VariantID:    ptr.Ptr(int64(9)),
		Date:         date,
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMin)
	// В часовое окно помещается единственный часовой слот
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
}

func TestExecute_Errors(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("shop not found", func(t *testing.T) {
		uc := newTestUseCase(t, &stubBookingRepo{}, &stubHoldRepo{}, &stubScheduleRepo{}, &stubCatalog{}, now)

		_, err := uc.Execute(context.Background(), &Request{ShopID: 1, TeamMemberID: 7, ServiceID: 3, Date: date})
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("unknown variant", func(t *testing.T) {
		uc := newTestUseCase(t, &stubBookingRepo{}, &stubHoldRepo{}, &stubScheduleRepo{}, &stubCatalog{shop: testShop(), service: testService()}, now)

		_, err := uc.Execute(context.Background(), &Request{
			ShopID: 1, TeamMemberID: 7, ServiceID: 3, VariantID: ptr.Ptr(int64(99)), Date: date,
		})
		assert.ErrorIs(t, err, ErrVariantNotFound)
	})

	t.Run("past date", func(t *testing.T) {
		uc := newTestUseCase(t, &stubBookingRepo{}, &stubHoldRepo{}, &stubScheduleRepo{}, &stubCatalog{shop: testShop(), service: testService()}, now)

		_, err := uc.Execute(context.Background(), &Request{
			ShopID: 1, TeamMemberID: 7, ServiceID: 3,
			Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("no working window yields empty slots", func(t *testing.T) {
		uc := newTestUseCase(t, &stubBookingRepo{}, &stubHoldRepo{}, &stubScheduleRepo{}, &stubCatalog{shop: testShop(), service: testService()}, now)

		resp, err := uc.Execute(context.Background(), &Request{ShopID: 1, TeamMemberID: 7, ServiceID: 3, Date: date})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})
}
