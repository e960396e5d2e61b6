package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
)

// PlacementRequest запрос на проверку размещения интервала в календаре мастера
type PlacementRequest struct {
	ShopID       int64
	TeamMemberID int64
	Date         time.Time
	Interval     domain.TimeInterval

	// ExcludeBookingID исключает бронь из проверки пересечений.
	// Используется при переносе: бронь не конфликтует сама с собой.
	ExcludeBookingID *int64

	// SessionID - холды этой сессии не считаются конфликтом
	SessionID *string

	// RequireWindow требует, чтобы интервал целиком лежал внутри рабочего
	// окна за вычетом блокировок. Клиентские пути включают проверку,
	// персонал салона может размещать брони вне расписания.
	RequireWindow bool
}

// Service сервис проверки конфликтов размещения.
// Единая точка истины для вопроса "можно ли поставить интервал сюда":
// через неё проходят холды, создание брони, перенос и реактивация.
type Service struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	scheduleRepo ScheduleRepository
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфликтов
func NewService(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	scheduleRepo ScheduleRepository,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		scheduleRepo: scheduleRepo,
		metrics:      metrics,
		logger:       logger,
	}
}

// ValidatePlacement проверяет, что интервал можно разместить в календаре.
// Возвращает *ConflictError с причиной отказа или nil, если место свободно.
// Для гарантии от гонок вызывается внутри сериализуемой транзакции,
// тогда чтения броней и холдов блокируют строки FOR UPDATE.
func (s *Service) ValidatePlacement(ctx context.Context, req *PlacementRequest, now time.Time) error {
	if req.Interval.DurationMinutes() <= 0 {
		return fmt.Errorf("%w: interval end must be after start", ErrInvalidInput)
	}

	// Занимающие календарь брони (confirmed и completed)
	filter := domain.CalendarFilter{
		TeamMemberID: ptr.Ptr(req.TeamMemberID),
		StartDate:    ptr.Ptr(req.Date),
		EndDate:      ptr.Ptr(req.Date),
		OnlyOccupied: true,
	}

	bookings, err := s.bookingRepo.GetByCalendarFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ValidatePlacement: failed to load bookings for member=%d date=%s: %v",
			req.TeamMemberID, req.Date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: ValidatePlacement - load bookings: %w", ErrInternal, err)
	}

	for _, b := range bookings {
		if req.ExcludeBookingID != nil && b.ID == *req.ExcludeBookingID {
			continue
		}

		interval, err := b.Interval()
		if err != nil {
			s.logger.Error("ValidatePlacement: booking id=%d has invalid interval: %v", b.ID, err)
			return fmt.Errorf("%w: ValidatePlacement - booking interval: %w", ErrInternal, err)
		}

		if interval.Overlaps(req.Interval) {
			s.reject(ReasonBooking)
			return &ConflictError{Reason: ReasonBooking, ConflictingID: b.ID}
		}
	}

	// Живые холды чужих сессий
	holds, err := s.holdRepo.GetLiveByMemberAndDate(ctx, req.TeamMemberID, req.Date, now)
	if err != nil {
		s.logger.Error("ValidatePlacement: failed to load holds for member=%d date=%s: %v",
			req.TeamMemberID, req.Date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: ValidatePlacement - load holds: %w", ErrInternal, err)
	}

	for _, h := range holds {
		if req.SessionID != nil && h.OwnedBy(*req.SessionID) {
			continue
		}
		if h.Interval().Overlaps(req.Interval) {
			s.reject(ReasonHold)
			return &ConflictError{Reason: ReasonHold}
		}
	}

	if !req.RequireWindow {
		return nil
	}

	return s.validateWindow(ctx, req)
}

// validateWindow проверяет, что интервал целиком лежит в рабочем окне
// за вычетом блокировок времени
func (s *Service) validateWindow(ctx context.Context, req *PlacementRequest) error {
	windows, err := s.scheduleRepo.GetWindowsForDate(ctx, req.TeamMemberID, req.ShopID, req.Date)
	if err != nil {
		s.logger.Error("ValidatePlacement: failed to load windows for member=%d date=%s: %v",
			req.TeamMemberID, req.Date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: ValidatePlacement - load windows: %w", ErrInternal, err)
	}

	blocked, err := s.scheduleRepo.GetBlockedForDate(ctx, req.TeamMemberID, req.ShopID, req.Date)
	if err != nil {
		s.logger.Error("ValidatePlacement: failed to load blocked times for member=%d date=%s: %v",
			req.TeamMemberID, req.Date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: ValidatePlacement - load blocked times: %w", ErrInternal, err)
	}

	blockedIntervals := make([]domain.TimeInterval, 0, len(blocked))
	for _, b := range blocked {
		blockedIntervals = append(blockedIntervals, b.Interval())
	}

	// Интервал должен попасть целиком в один из фрагментов окна,
	// оставшихся после вычитания блокировок
	for _, w := range windows {
		if !w.AppliesTo(req.Date) {
			continue
		}

		fragments := domain.SubtractAll([]domain.TimeInterval{w.Interval()}, blockedIntervals)

		for _, f := range fragments {
			if f.Contains(req.Interval) {
				return nil
			}
		}
	}

	// Различаем "вне окна" и "попал в блокировку" ради внятной причины отказа
	for _, w := range windows {
		if w.AppliesTo(req.Date) && w.Interval().Contains(req.Interval) {
			s.reject(ReasonBlocked)
			return &ConflictError{Reason: ReasonBlocked}
		}
	}

	s.reject(ReasonOutsideWindow)
	return &ConflictError{Reason: ReasonOutsideWindow}
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordPlacementRejection(reason)
	}
}
