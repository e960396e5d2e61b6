package create_booking

import (
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == nil && req.StaffID == nil {
		return fmt.Errorf("%w: either sessionID or staffID is required", ErrInvalidInput)
	}

	if req.SessionID != nil && *req.SessionID == "" {
		return fmt.Errorf("%w: sessionID must not be empty", ErrInvalidInput)
	}

	if req.SessionID != nil && len(*req.SessionID) > domain.MaxSessionIDLength {
		return fmt.Errorf("%w: sessionID must not exceed %d characters", ErrInvalidInput, domain.MaxSessionIDLength)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.TeamMemberID <= 0 {
		return fmt.Errorf("%w: teamMemberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.VariantID != nil && *req.VariantID <= 0 {
		return fmt.Errorf("%w: variantID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня салона
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
