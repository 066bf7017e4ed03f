package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/model"
	pkgerrors "github.com/mikieee25/BFPAttendance/pkg/errors"
)

// AttendanceFilter narrows attendance listing. StationID filters
// through the personnel table.
type AttendanceFilter struct {
	StationID   string
	PersonnelID string
	DateFrom    *time.Time
	DateTo      *time.Time
	Status      string
	Offset      int
	Limit       int
}

// MonthlyCount is one month's totals per status.
type MonthlyCount struct {
	Month   string `gorm:"column:month"`
	Present int64  `gorm:"column:present"`
	Late    int64  `gorm:"column:late"`
	Absent  int64  `gorm:"column:absent"`
}

// StatusCounts aggregates record counts per status.
type StatusCounts struct {
	Present int64
	Late    int64
	Absent  int64
}

// DailyCount is one calendar date's totals per status.
type DailyCount struct {
	Day     string `gorm:"column:day"` // "2006-01-02"
	Present int64  `gorm:"column:present"`
	Late    int64  `gorm:"column:late"`
	Absent  int64  `gorm:"column:absent"`
}

// PersonnelStatusCount is one personnel's totals per status over a range.
type PersonnelStatusCount struct {
	PersonnelID string `gorm:"column:personnel_id"`
	Present     int64  `gorm:"column:present"`
	Late        int64  `gorm:"column:late"`
	Absent      int64  `gorm:"column:absent"`
}

// AttendanceRepository is the attendance data access interface.
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	GetByPersonnelAndDate(ctx context.Context, personnelID string, date time.Time) (*model.Attendance, error)
	// GetRecentEvent finds any record whose time-in or time-out falls
	// after the given instant. Used for the cooldown check.
	GetRecentEvent(ctx context.Context, personnelID string, since time.Time) (*model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error)
	ListAll(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	ListByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]model.Attendance, error)
	CountByStatus(ctx context.Context, stationID string, from, to time.Time) (StatusCounts, error)
	// DailyCounts breaks the range down per calendar date.
	DailyCounts(ctx context.Context, stationID string, from, to time.Time) ([]DailyCount, error)
	// PersonnelCounts breaks the range down per personnel. Personnel
	// without records in the range do not appear.
	PersonnelCounts(ctx context.Context, stationID string, from, to time.Time) ([]PersonnelStatusCount, error)
	MonthlyCounts(ctx context.Context, stationID string, months int) ([]MonthlyCount, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates the GORM-backed AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Personnel").
		Preload("Personnel.Station").
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetByPersonnelAndDate(ctx context.Context, personnelID string, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("personnel_id = ? AND date = ?", personnelID, date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetRecentEvent(ctx context.Context, personnelID string, since time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Where("time_in >= ? OR time_out >= ?", since, since).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(a).
		Where("attendance_id = ? AND version = ?", a.AttendanceID, oldVersion).
		Updates(map[string]interface{}{
			"time_in":        a.TimeIn,
			"time_out":       a.TimeOut,
			"status":         a.Status,
			"time_in_image":  a.TimeInImage,
			"time_out_image": a.TimeOutImage,
			"is_approved":    a.IsApproved,
			"approved_by":    a.ApprovedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("attendance_id = ?", id).Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) applyFilter(db *gorm.DB, filter AttendanceFilter) *gorm.DB {
	if filter.StationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = attendance.personnel_id").
			Where("personnel.station_id = ?", filter.StationID)
	}
	if filter.PersonnelID != "" {
		db = db.Where("attendance.personnel_id = ?", filter.PersonnelID)
	}
	if filter.DateFrom != nil {
		db = db.Where("attendance.date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		db = db.Where("attendance.date <= ?", filter.DateTo.Format("2006-01-02"))
	}
	if filter.Status != "" {
		db = db.Where("attendance.status = ?", filter.Status)
	}
	return db
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error) {
	var list []model.Attendance
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Attendance{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Personnel").
		Preload("Personnel.Station").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("attendance.date DESC, attendance.time_in DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *attendanceRepo) ListAll(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	var list []model.Attendance
	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Attendance{}), filter)
	err := db.Preload("Personnel").
		Preload("Personnel.Station").
		Order("attendance.date, attendance.time_in").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attendanceRepo) ListByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attendanceRepo) CountByStatus(ctx context.Context, stationID string, from, to time.Time) (StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	db := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select("attendance.status AS status, COUNT(*) AS count").
		Where("attendance.date >= ? AND attendance.date <= ?",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = attendance.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}

	if err := db.Group("attendance.status").Scan(&rows).Error; err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case model.StatusPresent:
			counts.Present = row.Count
		case model.StatusLate:
			counts.Late = row.Count
		case model.StatusAbsent:
			counts.Absent = row.Count
		}
	}
	return counts, nil
}

func (r *attendanceRepo) DailyCounts(ctx context.Context, stationID string, from, to time.Time) ([]DailyCount, error) {
	db := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select(`to_char(attendance.date, 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE attendance.status = 'PRESENT') AS present,
			COUNT(*) FILTER (WHERE attendance.status = 'LATE') AS late,
			COUNT(*) FILTER (WHERE attendance.status = 'ABSENT') AS absent`).
		Where("attendance.date >= ? AND attendance.date <= ?",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = attendance.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}

	var rows []DailyCount
	if err := db.Group("day").Order("day").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) PersonnelCounts(ctx context.Context, stationID string, from, to time.Time) ([]PersonnelStatusCount, error) {
	db := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select(`attendance.personnel_id AS personnel_id,
			COUNT(*) FILTER (WHERE attendance.status = 'PRESENT') AS present,
			COUNT(*) FILTER (WHERE attendance.status = 'LATE') AS late,
			COUNT(*) FILTER (WHERE attendance.status = 'ABSENT') AS absent`).
		Where("attendance.date >= ? AND attendance.date <= ?",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = attendance.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}

	var rows []PersonnelStatusCount
	if err := db.Group("attendance.personnel_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) MonthlyCounts(ctx context.Context, stationID string, months int) ([]MonthlyCount, error) {
	since := time.Now().AddDate(0, -months, 0)

	db := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select(`to_char(attendance.date, 'YYYY-MM') AS month,
			COUNT(*) FILTER (WHERE attendance.status = 'PRESENT') AS present,
			COUNT(*) FILTER (WHERE attendance.status = 'LATE') AS late,
			COUNT(*) FILTER (WHERE attendance.status = 'ABSENT') AS absent`).
		Where("attendance.date >= ?", since.Format("2006-01-02"))
	if stationID != "" {
		db = db.Joins("JOIN personnel ON personnel.personnel_id = attendance.personnel_id").
			Where("personnel.station_id = ?", stationID)
	}

	var rows []MonthlyCount
	if err := db.Group("month").Order("month").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
