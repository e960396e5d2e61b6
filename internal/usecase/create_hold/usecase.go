package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	catalogClient "github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// UseCase use case временного удержания слота на время оформления.
// У сессии может быть максимум один живой холд: повторный запрос заменяет
// прежний слот и перезапускает TTL.
type UseCase struct {
	holdRepo        HoldRepository
	conflictService ConflictService
	catalog         CatalogServiceClient
	txManager       TransactionManager
	cache           CacheInvalidator
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	ttl             time.Duration
	minNoticeMin    int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	conflictService ConflictService,
	catalog CatalogServiceClient,
	txManager TransactionManager,
	cache CacheInvalidator,
	metrics Metrics,
	logger Logger,
	ttlMinutes int,
	minNoticeMinutes int,
) *UseCase {
	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultHoldTTLMinutes
	}

	return &UseCase{
		holdRepo:        holdRepo,
		conflictService: conflictService,
		catalog:         catalog,
		txManager:       txManager,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		ttl:             time.Duration(ttlMinutes) * time.Minute,
		minNoticeMin:    minNoticeMinutes,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания холда.
// Проверка конфликтов и запись холда идут в одной сериализуемой транзакции:
// из двух одновременных претендентов на слот ровно один получает холд,
// второй после ретрая транзакции видит победителя и получает бизнес-ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: session=%s, shop=%d, member=%d, service=%d, date=%s, time=%s",
		req.SessionID, req.ShopID, req.TeamMemberID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Салон и его часовой пояс
	shop, err := uc.catalog.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("CreateHold: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CreateHold: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %w", ErrInternal, err)
	}

	location, err := time.LoadLocation(shop.Timezone)
	if err != nil {
		uc.logger.Error("CreateHold: shop id=%d has invalid timezone %q: %v", req.ShopID, shop.Timezone, err)
		return nil, fmt.Errorf("%w: invalid shop timezone: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	localNow := now.In(location)

	// 3. Дата и минимальный notice по локальному времени салона
	if err := uc.validateHoldTime(req, localNow); err != nil {
		uc.logger.Warn("CreateHold: time validation failed: %v", err)
		return nil, err
	}

	// 4. Длительность услуги с учётом варианта
	service, err := uc.catalog.GetService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateHold: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateHold: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	durationMin, _, err := service.ResolveVariant(req.VariantID)
	if err != nil {
		uc.logger.Warn("CreateHold: variant %v not found for service id=%d", req.VariantID, req.ServiceID)
		return nil, ErrVariantNotFound
	}

	interval, err := domain.NewTimeInterval(req.StartTime, durationMin)
	if err != nil {
		uc.logger.Warn("CreateHold: invalid interval start=%s duration=%d: %v", req.StartTime, durationMin, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var hold *domain.Hold

	// 5. Проверка конфликтов и upsert холда в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		placement := &conflict.PlacementRequest{
			ShopID:        req.ShopID,
			TeamMemberID:  req.TeamMemberID,
			Date:          req.Date,
			Interval:      interval,
			SessionID:     ptr.Ptr(req.SessionID),
			RequireWindow: true,
		}

		if err := uc.conflictService.ValidatePlacement(txCtx, placement, now); err != nil {
			if ce, ok := conflict.IsConflict(err); ok {
				uc.recordConflict()
				uc.logger.Warn("CreateHold: placement rejected for session=%s: %s", req.SessionID, ce.Reason)
				if ce.Reason == conflict.ReasonHold {
					return ErrSlotHeld
				}
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: validate placement: %w", ErrInternal, err)
		}

		created, err := uc.holdRepo.Upsert(txCtx, &domain.Hold{
			SessionID:    req.SessionID,
			TeamMemberID: req.TeamMemberID,
			ShopID:       req.ShopID,
			HoldDate:     req.Date,
			StartTime:    interval.Start,
			EndTime:      interval.End,
			ExpiresAt:    now.Add(uc.ttl),
		})
		if err != nil {
			return fmt.Errorf("%w: upsert hold: %w", ErrInternal, err)
		}

		hold = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, hold)
	if uc.metrics != nil {
		uc.metrics.RecordHoldCreated()
	}

	uc.logger.Info("CreateHold: session=%s holds %s-%s on %s until %s",
		req.SessionID, hold.StartTime, hold.EndTime,
		hold.HoldDate.Format(domain.DateFormat), hold.ExpiresAt.Format(time.RFC3339))

	return &Response{
		SessionID:    hold.SessionID,
		SlotID:       domain.MakeSlotID(hold.TeamMemberID, hold.HoldDate, hold.StartTime),
		ShopID:       hold.ShopID,
		TeamMemberID: hold.TeamMemberID,
		Date:         hold.HoldDate.Format(domain.DateFormat),
		StartTime:    hold.StartTime,
		EndTime:      hold.EndTime,
		ExpiresAt:    hold.ExpiresAt,
		TTLSeconds:   int(uc.ttl.Seconds()),
	}, nil
}

// validateHoldTime проверяет, что слот не в прошлом и соблюдён минимальный
// notice. localNow уже в часовом поясе салона.
func (uc *UseCase) validateHoldTime(req *Request, localNow time.Time) error {
	if isDateInPast(req.Date, localNow) {
		return ErrInvalidDate
	}

	if !isSameDay(req.Date, localNow) {
		return nil
	}

	currentTime := types.NewTimeString(localNow)
	minAllowed, err := currentTime.AddMinutes(uc.minNoticeMin)
	if err != nil {
		// Порог за полночь: на сегодня бронировать уже поздно
		return ErrInvalidDate
	}

	if req.StartTime.IsBefore(minAllowed) {
		return fmt.Errorf("%w: slot starts before minimum notice period", ErrInvalidDate)
	}

	return nil
}

func (uc *UseCase) recordConflict() {
	if uc.metrics != nil {
		uc.metrics.RecordHoldConflict()
	}
}

// invalidateCache сбрасывает снапшоты слотов мастера на дату холда
func (uc *UseCase) invalidateCache(ctx context.Context, hold *domain.Hold) {
	if uc.cache == nil || hold == nil {
		return
	}

	if err := uc.cache.Invalidate(ctx, hold.TeamMemberID, hold.HoldDate); err != nil {
		uc.logger.Warn("CreateHold: cache invalidation failed for member=%d date=%s: %v",
			hold.TeamMemberID, hold.HoldDate.Format(domain.DateFormat), err)
	}
}
