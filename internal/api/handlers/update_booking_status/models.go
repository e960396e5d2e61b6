package update_booking_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status             string  `json:"status"` // confirmed | completed | cancelled | no_show
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
