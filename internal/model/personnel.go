package model

import "strings"

// Personnel is an individual whose attendance is tracked. Each belongs
// to exactly one station account.
type Personnel struct {
	PersonnelID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"personnel_id"`
	StationID    string  `gorm:"type:uuid;not null;index"                       json:"station_id"`
	FirstName    string  `gorm:"type:varchar(64);not null"                      json:"first_name"`
	LastName     string  `gorm:"type:varchar(64);not null"                      json:"last_name"`
	MiddleName   *string `gorm:"type:varchar(64)"                               json:"middle_name,omitempty"`
	Rank         string  `gorm:"type:varchar(64)"                               json:"rank"`
	Position     string  `gorm:"type:varchar(64)"                               json:"position"`
	BadgeNumber  string  `gorm:"type:varchar(32);not null;uniqueIndex"          json:"badge_number"`
	ProfileImage *string `gorm:"type:varchar(256)"                              json:"profile_image,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	Station *User `gorm:"foreignKey:StationID;references:UserID" json:"station,omitempty"`
}

// TableName sets the table name.
func (Personnel) TableName() string { return "personnel" }

// FullName returns "First M. Last", skipping the middle initial when absent.
func (p *Personnel) FullName() string {
	var b strings.Builder
	b.WriteString(p.FirstName)
	if p.MiddleName != nil && *p.MiddleName != "" {
		b.WriteString(" ")
		b.WriteString((*p.MiddleName)[:1])
		b.WriteString(".")
	}
	b.WriteString(" ")
	b.WriteString(p.LastName)
	return b.String()
}
