package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/service/schedule/models"
)

// Service сервис управления расписаниями мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		cache:        cache,
		logger:       logger,
	}
}

// GetMemberSchedule получает полное расписание мастера в салоне:
// окна доступности и блокировки времени
func (s *Service) GetMemberSchedule(ctx context.Context, teamMemberID, shopID int64) (*models.ScheduleResponse, error) {
	var windows []*domain.AvailabilityWindow
	var blocked []*domain.BlockedTime

	err := s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error

		windows, err = s.scheduleRepo.ListWindows(ctx, teamMemberID, shopID)
		if err != nil {
			return fmt.Errorf("%w: GetMemberSchedule - list windows: %w", ErrInternal, err)
		}

		blocked, err = s.scheduleRepo.ListBlocked(ctx, teamMemberID, shopID)
		if err != nil {
			return fmt.Errorf("%w: GetMemberSchedule - list blocked: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error("GetMemberSchedule: failed for member=%d shop=%d: %v", teamMemberID, shopID, err)
		return nil, err
	}

	resp := &models.ScheduleResponse{
		TeamMemberID: teamMemberID,
		ShopID:       shopID,
		Windows:      make([]models.WindowPayload, 0, len(windows)),
		Blocked:      make([]models.BlockedPayload, 0, len(blocked)),
	}

	for _, w := range windows {
		resp.Windows = append(resp.Windows, models.FromDomainWindow(w))
	}
	for _, b := range blocked {
		resp.Blocked = append(resp.Blocked, models.FromDomainBlocked(b))
	}

	return resp, nil
}

// ReplaceMemberSchedule полностью заменяет расписание мастера (PUT-семантика).
// Существующие брони не трогаются: сузившееся окно делает недоступными только
// будущие размещения.
func (s *Service) ReplaceMemberSchedule(ctx context.Context, teamMemberID, shopID int64, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	windows := make([]*domain.AvailabilityWindow, 0, len(req.Windows))
	for i := range req.Windows {
		w, err := req.Windows[i].ToDomainWindow(teamMemberID, shopID)
		if err != nil {
			s.logger.Warn("ReplaceMemberSchedule: invalid window for member=%d: %v", teamMemberID, err)
			return nil, fmt.Errorf("%w: window %d: %w", ErrInvalidInput, i, err)
		}
		windows = append(windows, w)
	}

	blocked := make([]*domain.BlockedTime, 0, len(req.Blocked))
	for i := range req.Blocked {
		b, err := req.Blocked[i].ToDomainBlocked(teamMemberID, shopID)
		if err != nil {
			s.logger.Warn("ReplaceMemberSchedule: invalid blocked time for member=%d: %v", teamMemberID, err)
			return nil, fmt.Errorf("%w: blocked %d: %w", ErrInvalidInput, i, err)
		}
		blocked = append(blocked, b)
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.ReplaceWindows(ctx, teamMemberID, shopID, windows); err != nil {
			return fmt.Errorf("%w: ReplaceMemberSchedule - replace windows: %w", ErrInternal, err)
		}
		if err := s.scheduleRepo.ReplaceBlocked(ctx, teamMemberID, shopID, blocked); err != nil {
			return fmt.Errorf("%w: ReplaceMemberSchedule - replace blocked: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		s.logger.Error("ReplaceMemberSchedule: failed for member=%d shop=%d: %v", teamMemberID, shopID, err)
		return nil, err
	}

	s.invalidateAffectedDates(ctx, teamMemberID, windows, blocked)

	s.logger.Info("ReplaceMemberSchedule: member=%d shop=%d now has %d windows, %d blocked ranges",
		teamMemberID, shopID, len(windows), len(blocked))

	return s.GetMemberSchedule(ctx, teamMemberID, shopID)
}

// invalidateAffectedDates сбрасывает снапшоты слотов по датам, явно
// затронутым заменой расписания. Повторяющиеся окна покрывают произвольные
// даты, их снапшоты доживают свой TTL.
func (s *Service) invalidateAffectedDates(ctx context.Context, teamMemberID int64, windows []*domain.AvailabilityWindow, blocked []*domain.BlockedTime) {
	if s.cache == nil {
		return
	}

	dates := make(map[time.Time]struct{})
	for _, w := range windows {
		if w.WindowDate != nil {
			dates[*w.WindowDate] = struct{}{}
		}
	}
	for _, b := range blocked {
		dates[b.BlockDate] = struct{}{}
	}

	for date := range dates {
		if err := s.cache.Invalidate(ctx, teamMemberID, date); err != nil {
			s.logger.Warn("invalidateAffectedDates: failed for member=%d date=%s: %v",
				teamMemberID, date.Format(domain.DateFormat), err)
		}
	}
}
