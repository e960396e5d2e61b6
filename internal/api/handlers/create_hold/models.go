package create_hold

import (
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	createHold "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_hold"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Машиночитаемые причины отказа: UI по ним обновляет сетку слотов
const (
	ReasonSlotHeld         = "slot_held"
	ReasonSlotNotAvailable = "slot_not_available"
)

var errInvalidTime = errors.New("invalid time string format")

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	SessionID    string `json:"sessionId"`
	ShopID       int64  `json:"shopId"`
	TeamMemberID int64  `json:"teamMemberId"`
	ServiceID    int64  `json:"serviceId"`
	VariantID    *int64 `json:"variantId,omitempty"`
	Date         string `json:"date"`      // "2026-03-12"
	StartTime    string `json:"startTime"` // "10:00"
}

// ConflictResponse тело ответа 409 с машиночитаемой причиной
type ConflictResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func NewConflictResponse(reason, message string) *ConflictResponse {
	return &ConflictResponse{
		Code:    409,
		Reason:  reason,
		Message: message,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest() (*createHold.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createHold.Request{
		SessionID:    r.SessionID,
		ShopID:       r.ShopID,
		TeamMemberID: r.TeamMemberID,
		ServiceID:    r.ServiceID,
		VariantID:    r.VariantID,
		Date:         date,
		StartTime:    startTime,
	}, nil
}
