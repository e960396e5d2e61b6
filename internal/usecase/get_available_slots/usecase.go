package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	catalogClient "github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
)

// UseCase use case расчёта доступных слотов мастера на дату
type UseCase struct {
	bookingRepo      BookingRepository
	holdRepo         HoldRepository
	scheduleRepo     ScheduleRepository
	catalog          CatalogServiceClient
	cache            SlotsCache
	timeProvider     TimeProvider
	logger           Logger
	stepMinutes      int
	minNoticeMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	scheduleRepo ScheduleRepository,
	catalog CatalogServiceClient,
	cache SlotsCache,
	logger Logger,
	stepMinutes int,
	minNoticeMinutes int,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	return &UseCase{
		bookingRepo:      bookingRepo,
		holdRepo:         holdRepo,
		scheduleRepo:     scheduleRepo,
		catalog:          catalog,
		cache:            cache,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		stepMinutes:      stepMinutes,
		minNoticeMinutes: minNoticeMinutes,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case расчёта слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%d, member=%d, service=%d, variant=%v, date=%s",
		req.ShopID, req.TeamMemberID, req.ServiceID, req.VariantID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Салон и его часовой пояс: "сегодня" и минимальный notice
	// считаются по локальному времени салона
	shop, err := uc.catalog.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %w", ErrInternal, err)
	}

	location, err := time.LoadLocation(shop.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: shop id=%d has invalid timezone %q: %v", req.ShopID, shop.Timezone, err)
		return nil, fmt.Errorf("%w: invalid shop timezone: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	localNow := now.In(location)

	// 3. Дата не в прошлом
	if isDateInPast(req.Date, localNow) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 4. Услуга и итоговая длительность с учётом варианта
	service, err := uc.catalog.GetService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	durationMin, _, err := service.ResolveVariant(req.VariantID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: variant %v not found for service id=%d", req.VariantID, req.ServiceID)
		return nil, ErrVariantNotFound
	}

	// 5. Кэшированный снапшот. Только для анонимных запросов: собственный
	// холд сессии меняет флаги доступности.
	if uc.cache != nil && req.SessionID == nil {
		if slots, err := uc.cache.Get(ctx, req.ShopID, req.TeamMemberID, req.ServiceID, req.VariantID, req.Date); err == nil {
			uc.logger.Info("GetAvailableSlots: cache hit for member=%d date=%s", req.TeamMemberID, req.Date.Format(domain.DateFormat))
			return uc.buildResponse(req, durationMin, slots), nil
		}
	}

	// 6. Рабочие фрагменты дня: окна минус блокировки
	windows, err := uc.scheduleRepo.GetWindowsForDate(ctx, req.TeamMemberID, req.ShopID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get windows: %w", ErrInternal, err)
	}

	blocked, err := uc.scheduleRepo.GetBlockedForDate(ctx, req.TeamMemberID, req.ShopID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %w", ErrInternal, err)
	}

	fragments := buildFragments(windows, blocked, req.Date)
	if len(fragments) == 0 {
		uc.logger.Info("GetAvailableSlots: member=%d has no working window on %s",
			req.TeamMemberID, req.Date.Format(domain.DateFormat))
		return uc.buildResponse(req, durationMin, []*domain.Slot{}), nil
	}

	// 7. Кандидаты слотов: сетка с шагом step, услуга помещается целиком
	candidates := generateCandidates(fragments, durationMin, uc.stepMinutes)
	candidates = filterMinNotice(candidates, req.Date, localNow, uc.minNoticeMinutes)

	// 8. Занятость: брони и чужие живые холды
	filter := domain.CalendarFilter{
		TeamMemberID: ptr.Ptr(req.TeamMemberID),
		StartDate:    ptr.Ptr(req.Date),
		EndDate:      ptr.Ptr(req.Date),
		OnlyOccupied: true,
	}

	bookings, err := uc.bookingRepo.GetByCalendarFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	holds, err := uc.holdRepo.GetLiveByMemberAndDate(ctx, req.TeamMemberID, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get holds: %v", err)
		return nil, fmt.Errorf("%w: failed to get holds: %w", ErrInternal, err)
	}

	slots := buildSlots(candidates, durationMin, req.TeamMemberID, req.Date, bookings, holds, req.SessionID)

	// 9. Снапшот в кэш (анонимная выдача)
	if uc.cache != nil && req.SessionID == nil {
		if err := uc.cache.Set(ctx, req.ShopID, req.TeamMemberID, req.ServiceID, req.VariantID, req.Date, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache snapshot: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for member=%d, date=%s",
		len(slots), req.TeamMemberID, req.Date.Format(domain.DateFormat))

	return uc.buildResponse(req, durationMin, slots), nil
}

func (uc *UseCase) buildResponse(req *Request, durationMin int, slots []*domain.Slot) *Response {
	return &Response{
		Date:         req.Date,
		ShopID:       req.ShopID,
		TeamMemberID: req.TeamMemberID,
		ServiceID:    req.ServiceID,
		VariantID:    req.VariantID,
		DurationMin:  durationMin,
		Slots:        slots,
	}
}
