package dto

// PendingListRequest filters pending attendance requests.
type PendingListRequest struct {
	PaginationRequest
	StationID string `form:"station_id" binding:"omitempty,uuid"`
}

// SubmitPendingRequest files an attendance request for review.
type SubmitPendingRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
	CaptureType string `json:"capture_type" binding:"required,oneof=TIME_IN TIME_OUT"`
	Image       string `json:"image"        binding:"required"`
	Notes       string `json:"notes"        binding:"omitempty,max=500"`
}

// RejectPendingRequest rejects a pending request with a reason.
type RejectPendingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
