package service

import (
	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/face"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
	"github.com/mikieee25/BFPAttendance/pkg/redis"
)

// Actor identifies the authenticated caller for service operations.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller has the admin role.
func (a *Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// StationID returns the station scope for station accounts. The
// station account's own user ID is the station; admins have no scope.
func (a *Actor) StationID() string {
	if a.IsAdmin() {
		return ""
	}
	return a.UserID
}

// Service aggregates all business logic interfaces.
type Service struct {
	Auth       AuthService
	User       UserService
	Personnel  PersonnelService
	Attendance AttendanceService
	Face       FaceService
	Pending    PendingService
	Report     ReportService
	Export     ExportService
}

// NewService wires up the service aggregate. rdb may be nil; services
// degrade to database-only behavior.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	faceClient *face.Client,
	faceIndex *face.Index,
	store *storage.Store,
	logger *zap.Logger,
) *Service {
	attendance := NewAttendanceService(cfg, repo, rdb, store, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, store, logger),
		User:       NewUserService(repo, logger),
		Personnel:  NewPersonnelService(repo, faceIndex, store, logger),
		Attendance: attendance,
		Face:       NewFaceService(cfg, repo, faceClient, faceIndex, store, attendance, logger),
		Pending:    NewPendingService(repo, store, logger),
		Report:     NewReportService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
