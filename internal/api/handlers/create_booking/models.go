package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	createBooking "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_booking"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Машиночитаемые причины отказа для checkout UI
const (
	ReasonHoldExpired      = "hold_expired"
	ReasonHoldMismatch     = "hold_mismatch"
	ReasonSlotHeld         = "slot_held"
	ReasonSlotNotAvailable = "slot_not_available"
)

var errInvalidTime = errors.New("invalid time string format")

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SessionID    *string `json:"sessionId,omitempty"` // Клиентский путь: подтверждение холда
	ClientID     int64   `json:"clientId"`
	ShopID       int64   `json:"shopId"`
	TeamMemberID int64   `json:"teamMemberId"`
	ServiceID    int64   `json:"serviceId"`
	VariantID    *int64  `json:"variantId,omitempty"`
	Date         string  `json:"date"`      // "2026-03-12"
	StartTime    string  `json:"startTime"` // "10:00"
	ClientName   *string `json:"clientName,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ConflictResponse тело ответа 409/410 с машиночитаемой причиной
type ConflictResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func NewConflictResponse(code int, reason, message string) *ConflictResponse {
	return &ConflictResponse{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// StaffID приходит из middleware, а не из тела запроса.
func (r *CreateBookingRequest) ToUseCaseRequest(staffID *int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		SessionID:    r.SessionID,
		StaffID:      staffID,
		ClientID:     r.ClientID,
		ShopID:       r.ShopID,
		TeamMemberID: r.TeamMemberID,
		ServiceID:    r.ServiceID,
		VariantID:    r.VariantID,
		Date:         date,
		StartTime:    startTime,
		ClientName:   r.ClientName,
		Notes:        r.Notes,
	}, nil
}
