package dto

import "github.com/mikieee25/BFPAttendance/internal/model"

// PersonnelListRequest filters the personnel list.
type PersonnelListRequest struct {
	PaginationRequest
	StationID string `form:"station_id" binding:"omitempty,uuid"`
	IsActive  *bool  `form:"is_active"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
}

// CreatePersonnelRequest creates a personnel record. StationID is only
// honored for admin callers; station accounts always create under
// themselves.
type CreatePersonnelRequest struct {
	StationID   string `json:"station_id"   binding:"omitempty,uuid"`
	FirstName   string `json:"first_name"   binding:"required,max=64"`
	LastName    string `json:"last_name"    binding:"required,max=64"`
	MiddleName  string `json:"middle_name"  binding:"omitempty,max=64"`
	Rank        string `json:"rank"         binding:"omitempty,max=64"`
	Position    string `json:"position"     binding:"omitempty,max=64"`
	BadgeNumber string `json:"badge_number" binding:"required,max=32"`
}

// UpdatePersonnelRequest updates mutable personnel fields.
type UpdatePersonnelRequest struct {
	FirstName  *string `json:"first_name"  binding:"omitempty,max=64"`
	LastName   *string `json:"last_name"   binding:"omitempty,max=64"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=64"`
	Rank       *string `json:"rank"        binding:"omitempty,max=64"`
	Position   *string `json:"position"    binding:"omitempty,max=64"`
	IsActive   *bool   `json:"is_active"`
}

// PersonnelDetailResponse is the detail view for one personnel:
// the record itself, how many face images are registered, and the
// latest attendance.
type PersonnelDetailResponse struct {
	Personnel        *model.Personnel   `json:"personnel"`
	FaceImageCount   int64              `json:"face_image_count"`
	RecentAttendance []model.Attendance `json:"recent_attendance"`
}

// RegisterFaceRequest registers face images for a personnel. Each image
// is a base64 data URL or raw base64 payload.
type RegisterFaceRequest struct {
	Images []string `json:"images" binding:"required,min=1,max=10"`
}

// RegisterFaceResponse reports how many embeddings were stored.
type RegisterFaceResponse struct {
	Registered   int     `json:"registered"`
	Skipped      int     `json:"skipped"`
	ProfileImage *string `json:"profile_image,omitempty"`
}
