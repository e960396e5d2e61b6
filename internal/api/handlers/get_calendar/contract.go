package get_calendar

import (
	"context"

	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
)

type BookingService interface {
	GetCalendar(ctx context.Context, req *models.GetCalendarRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
