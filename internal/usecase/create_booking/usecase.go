package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	holdStorage "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/hold"
	catalogClient "github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
)

// UseCase use case создания бронирования.
// Клиентский путь превращает холд сессии в бронь; staff-путь создаёт бронь
// напрямую и не требует попадания в рабочее окно мастера.
type UseCase struct {
	bookingRepo     BookingRepository
	holdRepo        HoldRepository
	conflictService ConflictService
	catalog         CatalogServiceClient
	txManager       TransactionManager
	cache           CacheInvalidator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	conflictService ConflictService,
	catalog CatalogServiceClient,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		holdRepo:        holdRepo,
		conflictService: conflictService,
		catalog:         catalog,
		txManager:       txManager,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, shop=%d, member=%d, service=%d, date=%s, time=%s, session=%v",
		req.ClientID, req.ShopID, req.TeamMemberID, req.ServiceID,
		req.Date.Format(domain.DateFormat), req.StartTime, req.SessionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Салон и его часовой пояс
	shop, err := uc.catalog.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("CreateBooking: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CreateBooking: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %w", ErrInternal, err)
	}

	location, err := time.LoadLocation(shop.Timezone)
	if err != nil {
		uc.logger.Error("CreateBooking: shop id=%d has invalid timezone %q: %v", req.ShopID, shop.Timezone, err)
		return nil, fmt.Errorf("%w: invalid shop timezone: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	// 3. Дата не в прошлом по локальному времени салона
	if isDateInPast(req.Date, now.In(location)) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 4. Услуга: длительность и цена с учётом варианта
	service, err := uc.catalog.GetService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	durationMin, price, err := service.ResolveVariant(req.VariantID)
	if err != nil {
		uc.logger.Warn("CreateBooking: variant %v not found for service id=%d", req.VariantID, req.ServiceID)
		return nil, ErrVariantNotFound
	}

	interval, err := domain.NewTimeInterval(req.StartTime, durationMin)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid interval start=%s duration=%d: %v", req.StartTime, durationMin, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 5. Холд, конфликты и вставка брони в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Клиентский путь: холд обязан существовать, быть живым
		// и удерживать именно запрошенный слот
		if req.SessionID != nil {
			if err := uc.verifyHold(txCtx, *req.SessionID, req, interval, now); err != nil {
				return err
			}
		}

		// 5.2. Проверка конфликтов. Персонал может ставить брони вне
		// рабочего окна, клиентский путь - нет.
		placement := &conflict.PlacementRequest{
			ShopID:        req.ShopID,
			TeamMemberID:  req.TeamMemberID,
			Date:          req.Date,
			Interval:      interval,
			SessionID:     req.SessionID,
			RequireWindow: req.StaffID == nil,
		}

		if err := uc.conflictService.ValidatePlacement(txCtx, placement, now); err != nil {
			if ce, ok := conflict.IsConflict(err); ok {
				uc.logger.Warn("CreateBooking: placement rejected: %s", ce.Reason)
				if ce.Reason == conflict.ReasonHold {
					return ErrSlotHeld
				}
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: validate placement: %w", ErrInternal, err)
		}

		// 5.3. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			BookingNumber: generateBookingNumber(req.Date),
			TeamMemberID:  req.TeamMemberID,
			ShopID:        req.ShopID,
			ServiceID:     req.ServiceID,
			VariantID:     req.VariantID,
			ClientID:      req.ClientID,
			BookingDate:   req.Date,
			StartTime:     interval.Start,
			DurationMin:   durationMin,
			Price:         price,
			Status:        domain.StatusConfirmed,
			ServiceName:   service.Name,
			ClientName:    req.ClientName,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		// 5.4. Использованный холд удаляется в той же транзакции
		if req.SessionID != nil {
			if err := uc.holdRepo.DeleteBySession(txCtx, *req.SessionID); err != nil {
				return fmt.Errorf("%w: delete hold: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, result)

	uc.logger.Info("CreateBooking: created booking id=%d number=%s for client=%d",
		result.ID, result.BookingNumber, result.ClientID)

	return &Response{Booking: models.FromDomainBooking(result)}, nil
}

// verifyHold проверяет холд клиентской сессии внутри транзакции.
// Строка холда блокируется FOR UPDATE, поэтому гонка "бронь по истёкшему
// холду против уборки" исключена.
func (uc *UseCase) verifyHold(ctx context.Context, sessionID string, req *Request, interval domain.TimeInterval, now time.Time) error {
	hold, err := uc.holdRepo.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, holdStorage.ErrHoldNotFound) {
			uc.logger.Warn("CreateBooking: session=%s has no hold", sessionID)
			return ErrHoldNotFound
		}
		return fmt.Errorf("%w: load hold: %w", ErrInternal, err)
	}

	if hold.IsExpired(now) {
		uc.logger.Warn("CreateBooking: hold for session=%s expired at %s", sessionID, hold.ExpiresAt.Format(time.RFC3339))
		return ErrHoldExpired
	}

	sameSlot := hold.TeamMemberID == req.TeamMemberID &&
		hold.HoldDate.Equal(req.Date) &&
		hold.StartTime == interval.Start &&
		hold.EndTime == interval.End

	if !sameSlot {
		uc.logger.Warn("CreateBooking: hold for session=%s holds %s-%s on %s, requested %s on %s",
			sessionID, hold.StartTime, hold.EndTime, hold.HoldDate.Format(domain.DateFormat),
			interval, req.Date.Format(domain.DateFormat))
		return ErrHoldMismatch
	}

	return nil
}

// generateBookingNumber генерирует человекочитаемый номер брони
// вида BK-20260312-7F3A2C
func generateBookingNumber(date time.Time) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("BK-%s-%s", date.Format("20060102"), entropy)
}

// invalidateCache сбрасывает снапшоты слотов мастера на дату брони
func (uc *UseCase) invalidateCache(ctx context.Context, booking *domain.Booking) {
	if uc.cache == nil || booking == nil {
		return
	}

	if err := uc.cache.Invalidate(ctx, booking.TeamMemberID, booking.BookingDate); err != nil {
		uc.logger.Warn("CreateBooking: cache invalidation failed for member=%d date=%s: %v",
			booking.TeamMemberID, booking.BookingDate.Format(domain.DateFormat), err)
	}
}
