package domain

// Default configuration values
const (
	DefaultSlotStepMinutes      = 15
	DefaultHoldTTLMinutes       = 10
	DefaultMinBookingNoticeMin  = 0
	DefaultSweepIntervalMinutes = 5
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 120
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxSessionIDLength          = 64
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы бронирований, занимающих календарь.
// Используются во всех проверках пересечений.
var OccupyingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}
