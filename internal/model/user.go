package model

// Account roles.
const (
	RoleAdmin   = "admin"
	RoleStation = "station"
)

// Station types covered by the Sorsogon fire bureau.
const (
	StationCentral = "CENTRAL"
	StationTalisay = "TALISAY"
	StationBacon   = "BACON"
	StationAbuyog  = "ABUYOG"
)

// ValidStationTypes lists all recognized station types.
var ValidStationTypes = []string{StationCentral, StationTalisay, StationBacon, StationAbuyog}

// IsValidStationType reports whether s names a known station.
func IsValidStationType(s string) bool {
	for _, t := range ValidStationTypes {
		if s == t {
			return true
		}
	}
	return false
}

// User is an account that can sign in. Station accounts double as the
// organizational unit personnel belong to; admin accounts have no
// station type.
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(64);not null;uniqueIndex"          json:"username"`
	Email        string  `gorm:"type:varchar(128);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(128);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(16);not null;default:'station'"    json:"role"`
	StationType  *string `gorm:"type:varchar(16)"                               json:"station_type,omitempty"`
	StationName  *string `gorm:"type:varchar(128)"                              json:"station_name,omitempty"`
	ProfileImage *string `gorm:"type:varchar(256)"                              json:"profile_image,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
