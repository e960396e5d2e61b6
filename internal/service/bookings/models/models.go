package models

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// Request модели

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetCalendarRequest запрос календаря мастера или салона за период
type GetCalendarRequest struct {
	TeamMemberID *int64     `json:"teamMemberId,omitempty"`
	ShopID       *int64     `json:"shopId,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	OnlyOccupied bool       `json:"onlyOccupied,omitempty"` // Только занимающие календарь статусы
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCalendarRequest) ToDomainFilter() domain.CalendarFilter {
	return domain.CalendarFilter{
		TeamMemberID: r.TeamMemberID,
		ShopID:       r.ShopID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		OnlyOccupied: r.OnlyOccupied,
	}
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Причина для cancelled
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	BookingNumber string  `json:"bookingNumber"`
	TeamMemberID  int64   `json:"teamMemberId"`
	ShopID        int64   `json:"shopId"`
	ServiceID     int64   `json:"serviceId"`
	VariantID     *int64  `json:"variantId,omitempty"`
	ClientID      int64   `json:"clientId"`
	BookingDate   string  `json:"bookingDate"` // "2026-03-12"
	StartTime     string  `json:"startTime"`   // "10:00"
	EndTime       string  `json:"endTime"`     // "10:45"
	DurationMin   int     `json:"durationMinutes"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	ClientName  *string `json:"clientName,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	CompletedAt        *string `json:"completedAt,omitempty"`
	NoShowAt           *string `json:"noShowAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		TeamMemberID:       b.TeamMemberID,
		ShopID:             b.ShopID,
		ServiceID:          b.ServiceID,
		VariantID:          b.VariantID,
		ClientID:           b.ClientID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMin:        b.DurationMin,
		Price:              b.Price,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ClientName:         b.ClientName,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конец интервала считаем из длительности; при битых данных поле остаётся пустым
	if interval, err := b.Interval(); err == nil {
		resp.EndTime = interval.End.String()
	}

	resp.CancelledAt = formatTimestamp(b.CancelledAt)
	resp.CompletedAt = formatTimestamp(b.CompletedAt)
	resp.NoShowAt = formatTimestamp(b.NoShowAt)

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
