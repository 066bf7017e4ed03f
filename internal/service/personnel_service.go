package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/face"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
)

var (
	ErrPersonnelNotFound = errors.New("personnel not found")
	ErrBadgeTaken        = errors.New("badge number is already registered")
	ErrStationRequired   = errors.New("station is required")
	ErrAccessDenied      = errors.New("access denied")
)

// detailAttendanceDays bounds the recent attendance shown on the
// personnel detail view.
const detailAttendanceDays = 30

// PersonnelService is the personnel management interface.
type PersonnelService interface {
	List(ctx context.Context, actor *Actor, req *dto.PersonnelListRequest) ([]model.Personnel, int64, error)
	Get(ctx context.Context, actor *Actor, id string) (*model.Personnel, error)
	// Detail adds the face image count and recent attendance to the
	// personnel record.
	Detail(ctx context.Context, actor *Actor, id string) (*dto.PersonnelDetailResponse, error)
	Create(ctx context.Context, actor *Actor, req *dto.CreatePersonnelRequest, ip string) (*model.Personnel, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.UpdatePersonnelRequest, ip string) (*model.Personnel, error)
	Delete(ctx context.Context, actor *Actor, id string, ip string) error
}

type personnelService struct {
	repo   *repository.Repository
	index  *face.Index
	store  *storage.Store
	logger *zap.Logger
}

// NewPersonnelService creates the PersonnelService.
func NewPersonnelService(
	repo *repository.Repository,
	index *face.Index,
	store *storage.Store,
	logger *zap.Logger,
) PersonnelService {
	return &personnelService{repo: repo, index: index, store: store, logger: logger}
}

func (s *personnelService) List(ctx context.Context, actor *Actor, req *dto.PersonnelListRequest) ([]model.Personnel, int64, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		// Station accounts only see their own roster.
		stationID = actor.StationID()
	}

	return s.repo.Personnel.List(ctx, repository.PersonnelFilter{
		StationID: stationID,
		IsActive:  req.IsActive,
		Keyword:   req.Keyword,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
}

func (s *personnelService) Get(ctx context.Context, actor *Actor, id string) (*model.Personnel, error) {
	p, err := s.repo.Personnel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && p.StationID != actor.StationID() {
		return nil, ErrAccessDenied
	}
	return p, nil
}

func (s *personnelService) Detail(ctx context.Context, actor *Actor, id string) (*dto.PersonnelDetailResponse, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	faceCount, err := s.repo.FaceData.CountByPersonnel(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recent, err := s.repo.Attendance.ListByPersonnel(ctx, id, now.AddDate(0, 0, -detailAttendanceDays), now)
	if err != nil {
		return nil, err
	}

	return &dto.PersonnelDetailResponse{
		Personnel:        p,
		FaceImageCount:   faceCount,
		RecentAttendance: recent,
	}, nil
}

func (s *personnelService) Create(ctx context.Context, actor *Actor, req *dto.CreatePersonnelRequest, ip string) (*model.Personnel, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		stationID = actor.StationID()
	}
	if stationID == "" {
		return nil, ErrStationRequired
	}

	if _, err := s.repo.Personnel.GetByBadgeNumber(ctx, req.BadgeNumber); err == nil {
		return nil, ErrBadgeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Personnel{
		StationID:   stationID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Rank:        req.Rank,
		Position:    req.Position,
		BadgeNumber: req.BadgeNumber,
		IsActive:    true,
	}
	if req.MiddleName != "" {
		p.MiddleName = &req.MiddleName
	}

	if err := s.repo.Personnel.Create(ctx, p); err != nil {
		s.logger.Error("create personnel failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionCreatePersonnel, "Created personnel "+p.FullName(), ip)
	return p, nil
}

func (s *personnelService) Update(ctx context.Context, actor *Actor, id string, req *dto.UpdatePersonnelRequest, ip string) (*model.Personnel, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.MiddleName != nil {
		p.MiddleName = req.MiddleName
	}
	if req.Rank != nil {
		p.Rank = *req.Rank
	}
	if req.Position != nil {
		p.Position = *req.Position
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Personnel.Update(ctx, p); err != nil {
		s.logger.Error("update personnel failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionUpdatePersonnel, "Updated personnel "+p.FullName(), ip)
	return p, nil
}

func (s *personnelService) Delete(ctx context.Context, actor *Actor, id string, ip string) error {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	// Stored face images go first so orphaned files do not linger.
	faces, err := s.repo.FaceData.ListByPersonnel(ctx, id)
	if err != nil {
		return err
	}
	for _, fd := range faces {
		if fd.ImagePath != nil {
			if err := s.store.Remove(*fd.ImagePath); err != nil {
				s.logger.Warn("remove face image failed", zap.Error(err))
			}
		}
	}
	if err := s.repo.FaceData.DeleteByPersonnel(ctx, id); err != nil {
		return err
	}
	s.index.RemovePersonnel(id)

	if err := s.repo.Personnel.Delete(ctx, id); err != nil {
		s.logger.Error("delete personnel failed", zap.Error(err))
		return err
	}

	s.logActivity(ctx, actor, model.ActionDeletePersonnel, "Deleted personnel "+p.FullName(), ip)
	return nil
}

func (s *personnelService) logActivity(ctx context.Context, actor *Actor, action, details, ip string) {
	log := &model.ActivityLog{
		UserID:  &actor.UserID,
		Action:  action,
		Details: details,
	}
	if ip != "" {
		log.IPAddress = &ip
	}
	if err := s.repo.ActivityLog.Create(ctx, log); err != nil {
		s.logger.Warn("write activity log failed", zap.Error(err))
	}
}
