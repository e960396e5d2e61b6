package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	bookingRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/booking"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
)

// Service сервис для работы с бронированиями: чтение, статусная машина, удаление.
// Создание и перенос живут в отдельных usecase, потому что требуют
// сериализуемых транзакций с проверкой конфликтов.
type Service struct {
	bookingRepo     BookingRepository
	conflictService ConflictService
	txManager       TransactionManager
	cache           CacheInvalidator
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	conflictService ConflictService,
	txManager TransactionManager,
	cache CacheInvalidator,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		conflictService: conflictService,
		txManager:       txManager,
		cache:           cache,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу.
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetCalendar получает брони календаря мастера или салона за период.
// Это staff-эндпоинт: отдаёт в том числе отменённые брони, если
// OnlyOccupied не выставлен.
func (s *Service) GetCalendar(ctx context.Context, req *models.GetCalendarRequest) (*models.BookingListResponse, error) {
	if req.TeamMemberID == nil && req.ShopID == nil {
		return nil, fmt.Errorf("%w: either teamMemberId or shopId is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCalendarFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetCalendar: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в новый статус по правилам статусной
// машины. Реактивация (возврат в confirmed из cancelled или no_show)
// выполняется в сериализуемой транзакции с повторной проверкой конфликтов:
// за время отмены слот могли занять.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := s.timeProvider.Now()

	var updated *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - load booking: %w", ErrInternal, err)
		}

		reactivation := !booking.OccupiesCalendar() && target == domain.StatusConfirmed

		if err := domain.ApplyTransition(booking, target, now); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}

		if target == domain.StatusCancelled {
			booking.CancellationReason = req.Reason
		}

		// Возвращаемая в календарь бронь обязана пройти проверку конфликтов
		if reactivation {
			interval, err := booking.Interval()
			if err != nil {
				return fmt.Errorf("%w: UpdateStatus - booking interval: %w", ErrInternal, err)
			}

			placement := &conflict.PlacementRequest{
				ShopID:           booking.ShopID,
				TeamMemberID:     booking.TeamMemberID,
				Date:             booking.BookingDate,
				Interval:         interval,
				ExcludeBookingID: ptr.Ptr(booking.ID),
			}

			if err := s.conflictService.ValidatePlacement(ctx, placement, now); err != nil {
				if _, ok := conflict.IsConflict(err); ok {
					return fmt.Errorf("%w: %w", ErrScheduleConflict, err)
				}
				return fmt.Errorf("%w: UpdateStatus - validate placement: %w", ErrInternal, err)
			}
		}

		if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
			return fmt.Errorf("%w: UpdateStatus - persist status: %w", ErrInternal, err)
		}

		updated = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, updated)

	s.logger.Info("UpdateStatus: booking id=%d moved to status=%s", id, target)
	return models.FromDomainBooking(updated), nil
}

// Delete удаляет бронирование. Физическое удаление доступно только
// персоналу; клиентский путь - отмена через UpdateStatus.
func (s *Service) Delete(ctx context.Context, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: Delete - load booking: %w", ErrInternal, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	s.invalidateCache(ctx, booking)

	s.logger.Info("Delete: booking id=%d removed", id)
	return nil
}

// invalidateCache сбрасывает снапшоты слотов мастера на дату брони.
// Ошибки кэша не фатальны: снапшот и так протухнет по TTL.
func (s *Service) invalidateCache(ctx context.Context, booking *domain.Booking) {
	if s.cache == nil || booking == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, booking.TeamMemberID, booking.BookingDate); err != nil {
		s.logger.Warn("invalidateCache: failed for member=%d date=%s: %v",
			booking.TeamMemberID, booking.BookingDate.Format(domain.DateFormat), err)
	}
}
