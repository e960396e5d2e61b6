package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// ErrCacheMiss возвращается, когда снапшота слотов в кэше нет
var ErrCacheMiss = errors.New("availability.cache: cache miss")

// AvailabilityCache кэш снапшотов доступных слотов в Redis.
// Снапшот живёт недолго (TTL в секундах) и инвалидируется при любой записи,
// меняющей календарь мастера на дату. Кэш опционален: при пустом адресе
// Redis движок работает напрямую от базы.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache создает кэш поверх подключения к Redis
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// snapshotKey строит ключ снапшота слотов.
// Вариант услуги входит в ключ, потому что меняет длительность слота.
func snapshotKey(shopID, teamMemberID, serviceID int64, variantID *int64, date time.Time) string {
	variant := int64(0)
	if variantID != nil {
		variant = *variantID
	}

	return fmt.Sprintf("slots:%d:%d:%d:%d:%s",
		shopID, teamMemberID, serviceID, variant, date.Format(domain.DateFormat))
}

// memberDateSet строит ключ множества снапшотов мастера на дату.
// Через него инвалидируются все варианты услуг разом.
func memberDateSet(teamMemberID int64, date time.Time) string {
	return fmt.Sprintf("slots-index:%d:%s", teamMemberID, date.Format(domain.DateFormat))
}

// Get читает снапшот слотов из кэша
func (c *AvailabilityCache) Get(ctx context.Context, shopID, teamMemberID, serviceID int64, variantID *int64, date time.Time) ([]*domain.Slot, error) {
	payload, err := c.client.Get(ctx, snapshotKey(shopID, teamMemberID, serviceID, variantID, date)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("availability.cache: Get - redis get: %w", err)
	}

	var slots []*domain.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, fmt.Errorf("availability.cache: Get - unmarshal snapshot: %w", err)
	}

	return slots, nil
}

// Set сохраняет снапшот слотов и регистрирует его ключ в индексе мастера на дату
func (c *AvailabilityCache) Set(ctx context.Context, shopID, teamMemberID, serviceID int64, variantID *int64, date time.Time, slots []*domain.Slot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability.cache: Set - marshal snapshot: %w", err)
	}

	key := snapshotKey(shopID, teamMemberID, serviceID, variantID, date)
	index := memberDateSet(teamMemberID, date)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.SAdd(ctx, index, key)
	// Индекс живёт чуть дольше снапшотов, чтобы не потерять ключи при инвалидации
	pipe.Expire(ctx, index, c.ttl+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("availability.cache: Set - redis pipeline: %w", err)
	}

	return nil
}

// Invalidate сбрасывает все снапшоты мастера на дату.
// Вызывается после каждой записи, затрагивающей календарь: холд, бронь,
// перенос, смена статуса, правка расписания.
func (c *AvailabilityCache) Invalidate(ctx context.Context, teamMemberID int64, date time.Time) error {
	index := memberDateSet(teamMemberID, date)

	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("availability.cache: Invalidate - read index: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	keys = append(keys, index)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("availability.cache: Invalidate - delete keys: %w", err)
	}

	return nil
}
