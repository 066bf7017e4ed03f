package model

import "time"

// Attendance statuses.
const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

// Attendance is one personnel's record for one calendar date. At most
// one row exists per personnel per date.
type Attendance struct {
	AttendanceID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	PersonnelID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_personnel_date" json:"personnel_id"`
	Date            time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_personnel_date;index" json:"date"`
	TimeIn          *time.Time `json:"time_in,omitempty"`
	TimeOut         *time.Time `json:"time_out,omitempty"`
	Status          string     `gorm:"type:varchar(16);not null;default:'PRESENT'"    json:"status"`
	TimeInImage     *string    `gorm:"type:varchar(256)"                              json:"time_in_image,omitempty"`
	TimeOutImage    *string    `gorm:"type:varchar(256)"                              json:"time_out_image,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	IsManual        bool       `gorm:"not null;default:false"                         json:"is_manual"`
	IsApproved      bool       `gorm:"not null;default:true"                          json:"is_approved"`
	ApprovedBy      *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	// Version guards concurrent edits (capture vs. approval).
	Version int `gorm:"not null;default:1" json:"version"`
	BaseModel

	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
	Approver  *User      `gorm:"foreignKey:ApprovedBy;references:UserID"       json:"approver,omitempty"`
}

// TableName sets the table name.
func (Attendance) TableName() string { return "attendance" }
