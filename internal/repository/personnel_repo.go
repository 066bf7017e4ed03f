package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/model"
)

// PersonnelFilter narrows personnel listing.
type PersonnelFilter struct {
	StationID string
	IsActive  *bool
	Keyword   string
	Offset    int
	Limit     int
}

// PersonnelRepository is the personnel data access interface.
type PersonnelRepository interface {
	Create(ctx context.Context, p *model.Personnel) error
	GetByID(ctx context.Context, id string) (*model.Personnel, error)
	GetByBadgeNumber(ctx context.Context, badge string) (*model.Personnel, error)
	Update(ctx context.Context, p *model.Personnel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PersonnelFilter) ([]model.Personnel, int64, error)
	ListByStation(ctx context.Context, stationID string) ([]model.Personnel, error)
	CountActive(ctx context.Context, stationID string) (int64, error)
}

type personnelRepo struct {
	db *gorm.DB
}

// NewPersonnelRepo creates the GORM-backed PersonnelRepository.
func NewPersonnelRepo(db *gorm.DB) PersonnelRepository {
	return &personnelRepo{db: db}
}

func (r *personnelRepo) Create(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personnelRepo) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Preload("Station").
		Where("personnel_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) GetByBadgeNumber(ctx context.Context, badge string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Where("badge_number = ?", badge).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) Update(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personnelRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("personnel_id = ?", id).Delete(&model.Personnel{}).Error
}

func (r *personnelRepo) List(ctx context.Context, filter PersonnelFilter) ([]model.Personnel, int64, error) {
	var list []model.Personnel
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Personnel{})
	if filter.StationID != "" {
		db = db.Where("station_id = ?", filter.StationID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR badge_number ILIKE ?", kw, kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Station").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("last_name, first_name").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *personnelRepo) ListByStation(ctx context.Context, stationID string) ([]model.Personnel, error) {
	var list []model.Personnel
	db := r.db.WithContext(ctx)
	if stationID != "" {
		db = db.Where("station_id = ?", stationID)
	}
	if err := db.Order("last_name, first_name").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *personnelRepo) CountActive(ctx context.Context, stationID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Personnel{}).Where("is_active = TRUE")
	if stationID != "" {
		db = db.Where("station_id = ?", stationID)
	}
	if err := db.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
