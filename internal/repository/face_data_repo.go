package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/model"
)

// FaceDataRepository is the face embedding data access interface.
type FaceDataRepository interface {
	Create(ctx context.Context, fd *model.FaceData) error
	ListByPersonnel(ctx context.Context, personnelID string) ([]model.FaceData, error)
	// ListAll returns embeddings for the in-memory index. An empty
	// stationID returns every station's data.
	ListAll(ctx context.Context, stationID string) ([]model.FaceData, error)
	DeleteByPersonnel(ctx context.Context, personnelID string) error
	CountByPersonnel(ctx context.Context, personnelID string) (int64, error)
}

type faceDataRepo struct {
	db *gorm.DB
}

// NewFaceDataRepo creates the GORM-backed FaceDataRepository.
func NewFaceDataRepo(db *gorm.DB) FaceDataRepository {
	return &faceDataRepo{db: db}
}

func (r *faceDataRepo) Create(ctx context.Context, fd *model.FaceData) error {
	return r.db.WithContext(ctx).Create(fd).Error
}

func (r *faceDataRepo) ListByPersonnel(ctx context.Context, personnelID string) ([]model.FaceData, error) {
	var list []model.FaceData
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Order("created_at").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *faceDataRepo) ListAll(ctx context.Context, stationID string) ([]model.FaceData, error) {
	var list []model.FaceData
	db := r.db.WithContext(ctx).Model(&model.FaceData{})
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = face_data.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}
	if err := db.Preload("Personnel").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *faceDataRepo) DeleteByPersonnel(ctx context.Context, personnelID string) error {
	return r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Delete(&model.FaceData{}).Error
}

func (r *faceDataRepo) CountByPersonnel(ctx context.Context, personnelID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FaceData{}).
		Where("personnel_id = ?", personnelID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
