package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	bookingStorage "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/booking"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	"github.com/ev4kov/SBP-BookingEngine/pkg/ptr"
)

// UseCase use case переноса брони и изменения её длительности.
// Обслуживает drag-and-drop календаря: move двигает бронь целиком,
// resize_start и resize_end двигают одну из границ.
type UseCase struct {
	bookingRepo     BookingRepository
	conflictService ConflictService
	txManager       TransactionManager
	cache           CacheInvalidator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	conflictService ConflictService,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		conflictService: conflictService,
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

// Execute выполняет use case переноса брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: id=%d, command=%s", req.BookingID, req.Command)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking
	var oldDate time.Time

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingStorage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: load booking: %w", ErrInternal, err)
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d in status=%s cannot be moved", booking.ID, booking.Status)
			return ErrNotReschedulable
		}

		oldDate = booking.BookingDate

		newDate, newInterval, err := applyCommand(booking, req)
		if err != nil {
			return err
		}

		placement := &conflict.PlacementRequest{
			ShopID:           booking.ShopID,
			TeamMemberID:     booking.TeamMemberID,
			Date:             newDate,
			Interval:         newInterval,
			ExcludeBookingID: ptr.Ptr(booking.ID),
			RequireWindow:    req.StaffID == nil,
		}

		if err := uc.conflictService.ValidatePlacement(txCtx, placement, now); err != nil {
			if ce, ok := conflict.IsConflict(err); ok {
				uc.logger.Warn("RescheduleBooking: placement rejected for booking id=%d: %s", booking.ID, ce.Reason)
				if ce.Reason == conflict.ReasonHold {
					return ErrSlotHeld
				}
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: validate placement: %w", ErrInternal, err)
		}

		durationMin := newInterval.DurationMinutes()

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, newDate, newInterval.Start, durationMin); err != nil {
			return fmt.Errorf("%w: update schedule: %w", ErrInternal, err)
		}

		booking.BookingDate = newDate
		booking.StartTime = newInterval.Start
		booking.DurationMin = durationMin

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, result.TeamMemberID, oldDate)
	if !oldDate.Equal(result.BookingDate) {
		uc.invalidateCache(ctx, result.TeamMemberID, result.BookingDate)
	}

	uc.logger.Info("RescheduleBooking: booking id=%d now %s %s, %d min",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime, result.DurationMin)

	return &Response{Booking: models.FromDomainBooking(result)}, nil
}

// applyCommand вычисляет новые дату и интервал брони по команде
func applyCommand(booking *domain.Booking, req *Request) (time.Time, domain.TimeInterval, error) {
	current, err := booking.Interval()
	if err != nil {
		return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: booking interval: %w", ErrInternal, err)
	}

	switch req.Command {
	case CommandMove:
		newDate := booking.BookingDate
		if req.NewDate != nil {
			newDate = *req.NewDate
		}

		moved, err := domain.NewTimeInterval(*req.NewStart, booking.DurationMin)
		if err != nil {
			return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return newDate, moved, nil

	case CommandResizeStart:
		if !req.NewStart.IsBefore(current.End) {
			return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: new start must be before current end", ErrInvalidInput)
		}

		resized, err := domain.NewTimeIntervalFromBounds(*req.NewStart, current.End)
		if err != nil {
			return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return booking.BookingDate, resized, nil

	case CommandResizeEnd:
		if !current.Start.IsBefore(*req.NewEnd) {
			return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: new end must be after current start", ErrInvalidInput)
		}

		resized, err := domain.NewTimeIntervalFromBounds(current.Start, *req.NewEnd)
		if err != nil {
			return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return booking.BookingDate, resized, nil

	default:
		return time.Time{}, domain.TimeInterval{}, fmt.Errorf("%w: unknown command %q", ErrInvalidInput, req.Command)
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	switch req.Command {
	case CommandMove, CommandResizeStart:
		if req.NewStart == nil {
			return fmt.Errorf("%w: %s requires newStart", ErrInvalidInput, req.Command)
		}
		if err := req.NewStart.Validate(); err != nil {
			return fmt.Errorf("%w: invalid newStart: %w", ErrInvalidInput, err)
		}
	case CommandResizeEnd:
		if req.NewEnd == nil {
			return fmt.Errorf("%w: resize_end requires newEnd", ErrInvalidInput)
		}
		if err := req.NewEnd.Validate(); err != nil {
			return fmt.Errorf("%w: invalid newEnd: %w", ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidInput, req.Command)
	}

	return nil
}

// invalidateCache сбрасывает снапшоты слотов мастера на дату
func (uc *UseCase) invalidateCache(ctx context.Context, teamMemberID int64, date time.Time) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Invalidate(ctx, teamMemberID, date); err != nil {
		uc.logger.Warn("RescheduleBooking: cache invalidation failed for member=%d date=%s: %v",
			teamMemberID, date.Format(domain.DateFormat), err)
	}
}
