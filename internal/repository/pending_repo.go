package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/model"
)

// PendingFilter narrows pending request listing.
type PendingFilter struct {
	StationID string
	Offset    int
	Limit     int
}

// PendingRepository is the pending attendance data access interface.
type PendingRepository interface {
	Create(ctx context.Context, p *model.PendingAttendance) error
	GetByID(ctx context.Context, id string) (*model.PendingAttendance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PendingFilter) ([]model.PendingAttendance, int64, error)
	Count(ctx context.Context, stationID string) (int64, error)
}

type pendingRepo struct {
	db *gorm.DB
}

// NewPendingRepo creates the GORM-backed PendingRepository.
func NewPendingRepo(db *gorm.DB) PendingRepository {
	return &pendingRepo{db: db}
}

func (r *pendingRepo) Create(ctx context.Context, p *model.PendingAttendance) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pendingRepo) GetByID(ctx context.Context, id string) (*model.PendingAttendance, error) {
	var p model.PendingAttendance
	err := r.db.WithContext(ctx).
		Preload("Personnel").
		Preload("Personnel.Station").
		Where("pending_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pendingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("pending_id = ?", id).
		Delete(&model.PendingAttendance{}).Error
}

func (r *pendingRepo) List(ctx context.Context, filter PendingFilter) ([]model.PendingAttendance, int64, error) {
	var list []model.PendingAttendance
	var total int64

	db := r.db.WithContext(ctx).Model(&model.PendingAttendance{})
	if filter.StationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = pending_attendance.personnel_id").
			Where("personnel.station_id = ?", filter.StationID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Personnel").
		Preload("Personnel.Station").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("pending_attendance.created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *pendingRepo) Count(ctx context.Context, stationID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.PendingAttendance{})
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = pending_attendance.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}
	if err := db.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
