package dto

// CaptureRequest carries one camera frame for recognition.
type CaptureRequest struct {
	Image string `json:"image" binding:"required"`
}

// Capture outcome actions.
const (
	CaptureActionTimeIn          = "time_in"
	CaptureActionCooldown        = "cooldown"
	CaptureActionAlreadyRecorded = "already_recorded"
)

// CaptureResponse reports the outcome of a recognition capture.
type CaptureResponse struct {
	Action        string          `json:"action"`
	Personnel     *PersonnelBrief `json:"personnel,omitempty"`
	Status        string          `json:"status,omitempty"`
	Time          string          `json:"time,omitempty"`
	TimeIn        string          `json:"time_in,omitempty"`
	TimeOut       string          `json:"time_out,omitempty"`
	Message       string          `json:"message,omitempty"`
	RemainingTime int             `json:"remaining_time,omitempty"`
	Confidence    float64         `json:"confidence,omitempty"`
}

// AttendanceListRequest filters attendance records.
type AttendanceListRequest struct {
	PaginationRequest
	StationID   string `form:"station_id"   binding:"omitempty,uuid"`
	PersonnelID string `form:"personnel_id" binding:"omitempty,uuid"`
	DateFrom    string `form:"date_from"    binding:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"date_to"      binding:"omitempty,datetime=2006-01-02"`
	Status      string `form:"status"       binding:"omitempty,oneof=PRESENT LATE ABSENT"`
}

// ManualAttendanceRequest creates an attendance record by hand.
type ManualAttendanceRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
	Date        string `json:"date"         binding:"required,datetime=2006-01-02"`
	TimeIn      string `json:"time_in"      binding:"required,datetime=15:04"`
	TimeOut     string `json:"time_out"     binding:"omitempty,datetime=15:04"`
	Status      string `json:"status"       binding:"omitempty,oneof=PRESENT LATE ABSENT"`
}

// UpdateAttendanceRequest edits an existing record.
type UpdateAttendanceRequest struct {
	TimeIn  *string `json:"time_in"  binding:"omitempty,datetime=15:04"`
	TimeOut *string `json:"time_out" binding:"omitempty,datetime=15:04"`
	Status  *string `json:"status"   binding:"omitempty,oneof=PRESENT LATE ABSENT"`
}
