package release_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	holdRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/hold"
)

// UseCase use case освобождения холда сессии.
// Идемпотентен: повторный вызов и вызов без холда завершаются успехом.
type UseCase struct {
	holdRepo HoldRepository
	cache    CacheInvalidator
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(holdRepo HoldRepository, cache CacheInvalidator, logger Logger) *UseCase {
	return &UseCase{
		holdRepo: holdRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Execute выполняет use case освобождения холда
func (uc *UseCase) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}

	// Холд читается до удаления только ради инвалидации кэша
	hold, err := uc.holdRepo.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Info("ReleaseHold: session=%s has no hold, nothing to release", sessionID)
			return nil
		}
		uc.logger.Error("ReleaseHold: failed to load hold for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: load hold: %w", ErrInternal, err)
	}

	if err := uc.holdRepo.DeleteBySession(ctx, sessionID); err != nil {
		uc.logger.Error("ReleaseHold: failed to delete hold for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: delete hold: %w", ErrInternal, err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, hold.TeamMemberID, hold.HoldDate); err != nil {
			uc.logger.Warn("ReleaseHold: cache invalidation failed for member=%d date=%s: %v",
				hold.TeamMemberID, hold.HoldDate.Format(domain.DateFormat), err)
		}
	}

	uc.logger.Info("ReleaseHold: session=%s released %s-%s on %s",
		sessionID, hold.StartTime, hold.EndTime, hold.HoldDate.Format(domain.DateFormat))

	return nil
}
