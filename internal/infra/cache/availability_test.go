package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
)

func newTestCache(t *testing.T) (*AvailabilityCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewAvailabilityCache(client, time.Minute), mr
}

func testSlots() []*domain.Slot {
	return []*domain.Slot{
		{SlotID: "7-2026-03-12-10:00", StartTime: "10:00", EndTime: "10:45", IsAvailable: true},
		{SlotID: "7-2026-03-12-10:15", StartTime: "10:15", EndTime: "11:00", IsAvailable: false},
	}
}

func TestGetMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	_, err := c.Get(ctx, 1, 7, 3, nil, date)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, 1, 7, 3, nil, date, testSlots()))

	got, err := c.Get(ctx, 1, 7, 3, nil, date)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "7-2026-03-12-10:00", got[0].SlotID)
	assert.True(t, got[0].IsAvailable)
	assert.False(t, got[1].IsAvailable)
}

func TestVariantsUseSeparateKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Set(ctx, 1, 7, 3, nil, date, testSlots()))

	// Вариант услуги меняет длительность - снапшот другой
	_, err := c.Get(ctx, 1, 7, 3, ptr.Ptr(int64(9)), date)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidateDropsAllVariants(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Set(ctx, 1, 7, 3, nil, date, testSlots()))
	require.NoError(t, c.Set(ctx, 1, 7, 3, ptr.Ptr(int64(9)), date, testSlots()))
	require.NoError(t, c.Set(ctx, 1, 7, 4, nil, date, testSlots()))

	require.NoError(t, c.Invalidate(ctx, 7, date))

	_, err := c.Get(ctx, 1, 7, 3, nil, date)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, 1, 7, 3, ptr.Ptr(int64(9)), date)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, 1, 7, 4, nil, date)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidateOtherMemberUntouched(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Set(ctx, 1, 7, 3, nil, date, testSlots()))
	require.NoError(t, c.Set(ctx, 1, 8, 3, nil, date, testSlots()))

	require.NoError(t, c.Invalidate(ctx, 7, date))

	_, err := c.Get(ctx, 1, 8, 3, nil, date)
	assert.NoError(t, err)
}

func TestSnapshotExpiresWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Set(ctx, 1, 7, 3, nil, date, testSlots()))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, 1, 7, 3, nil, date)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
