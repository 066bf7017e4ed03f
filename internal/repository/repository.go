package repository

import "gorm.io/gorm"

// Repository aggregates all data access interfaces.
type Repository struct {
	User        UserRepository
	Personnel   PersonnelRepository
	Attendance  AttendanceRepository
	FaceData    FaceDataRepository
	Pending     PendingRepository
	ActivityLog ActivityLogRepository
}

// NewRepository creates the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Personnel:   NewPersonnelRepo(db),
		Attendance:  NewAttendanceRepo(db),
		FaceData:    NewFaceDataRepo(db),
		Pending:     NewPendingRepo(db),
		ActivityLog: NewActivityLogRepo(db),
	}
}
