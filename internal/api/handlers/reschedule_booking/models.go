package reschedule_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	rescheduleBooking "github.com/ev4kov/SBP-BookingEngine/internal/usecase/reschedule_booking"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Машиночитаемые причины отказа: календарь по ним откатывает карточку
const (
	ReasonSlotHeld         = "slot_held"
	ReasonSlotNotAvailable = "slot_not_available"
)

var (
	errInvalidMode = errors.New("invalid reschedule mode")
	errInvalidTime = errors.New("invalid time string format")
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Mode      string  `json:"mode"`                // move | resize_start | resize_end
	Date      *string `json:"date,omitempty"`      // "2026-03-12", только для move
	StartTime *string `json:"startTime,omitempty"` // move, resize_start
	EndTime   *string `json:"endTime,omitempty"`   // resize_end
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
func (r *RescheduleRequest) ToUseCaseRequest(bookingID int64, staffID *int64) (*rescheduleBooking.Request, error) {
	var command rescheduleBooking.Command
	switch r.Mode {
	case string(rescheduleBooking.CommandMove):
		command = rescheduleBooking.CommandMove
	case string(rescheduleBooking.CommandResizeStart):
		command = rescheduleBooking.CommandResizeStart
	case string(rescheduleBooking.CommandResizeEnd):
		command = rescheduleBooking.CommandResizeEnd
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidMode, r.Mode)
	}

	req := &rescheduleBooking.Request{
		BookingID: bookingID,
		Command:   command,
		StaffID:   staffID,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.NewDate = &date
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
		}
		req.NewStart = &start
	}

	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
		}
		req.NewEnd = &end
	}

	return req, nil
}
