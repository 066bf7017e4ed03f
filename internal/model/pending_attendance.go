package model

import "time"

// Capture types awaiting approval.
const (
	CaptureTimeIn  = "TIME_IN"
	CaptureTimeOut = "TIME_OUT"
)

// PendingAttendance is an attendance request waiting for a reviewer.
// Approval merges it into the attendance table; rejection discards it
// together with its image.
type PendingAttendance struct {
	PendingID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pending_id"`
	PersonnelID string    `gorm:"type:uuid;not null;index"                       json:"personnel_id"`
	Date        time.Time `gorm:"type:date;not null"                             json:"date"`
	CaptureType string    `gorm:"type:varchar(16);not null"                      json:"capture_type"`
	ImagePath   *string   `gorm:"type:varchar(256)"                              json:"image_path,omitempty"`
	Notes       string    `gorm:"type:text"                                      json:"notes"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
}

// TableName sets the table name.
func (PendingAttendance) TableName() string { return "pending_attendance" }
