package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// FaceData is one registered face embedding for a personnel. Several
// rows per personnel are expected; recognition matches against all of
// them.
type FaceData struct {
	FaceDataID  string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"face_data_id"`
	PersonnelID string          `gorm:"type:uuid;not null;index"                       json:"personnel_id"`
	Embedding   pgvector.Vector `gorm:"type:vector(512);not null"                      json:"-"`
	ImagePath   *string         `gorm:"type:varchar(256)"                              json:"image_path,omitempty"`
	// DetectionConfidence is the detector's score for the registered
	// face, kept for auditing registration quality.
	DetectionConfidence *float64  `json:"detection_confidence,omitempty"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
}

// TableName sets the table name.
func (FaceData) TableName() string { return "face_data" }
