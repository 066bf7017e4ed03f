package model

import "time"

// Well-known activity log actions. Details carry the free-form part.
const (
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionRegisterFace     = "register_face"
	ActionCaptureTimeIn    = "capture_time_in"
	ActionCaptureTimeOut   = "capture_time_out"
	ActionManualAttendance = "manual_attendance"
	ActionEditAttendance   = "edit_attendance"
	ActionDeleteAttendance = "delete_attendance"
	ActionApprovePending   = "approve_pending"
	ActionRejectPending    = "reject_pending"
	ActionCreatePersonnel  = "create_personnel"
	ActionUpdatePersonnel  = "update_personnel"
	ActionDeletePersonnel  = "delete_personnel"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionDeleteUser       = "delete_user"
	ActionExportReport     = "export_report"
)

// ActivityLog records one audited action. UserID is null for system
// actions such as unattended captures.
type ActivityLog struct {
	LogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	UserID    *string   `gorm:"type:uuid;index"                                json:"user_id,omitempty"`
	Action    string    `gorm:"type:varchar(64);not null"                      json:"action"`
	Details   string    `gorm:"type:text"                                      json:"details"`
	IPAddress *string   `gorm:"type:varchar(45)"                               json:"ip_address,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName sets the table name.
func (ActivityLog) TableName() string { return "activity_logs" }
