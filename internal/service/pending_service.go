package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
)

var (
	ErrPendingNotFound = errors.New("pending request not found")
	ErrTimeInExists    = errors.New("time-in already recorded for this date")
	ErrTimeOutExists   = errors.New("time-out already recorded for this date")
)

// PendingService is the attendance approval workflow interface.
type PendingService interface {
	Submit(ctx context.Context, actor *Actor, req *dto.SubmitPendingRequest, ip string) (*model.PendingAttendance, error)
	List(ctx context.Context, actor *Actor, req *dto.PendingListRequest) ([]model.PendingAttendance, int64, error)
	// Approve merges the request into the attendance table, stamping
	// the approval time as the event time.
	Approve(ctx context.Context, actor *Actor, id string, ip string) error
	// Reject discards the request and its stored image.
	Reject(ctx context.Context, actor *Actor, id string, reason string, ip string) error
}

type pendingService struct {
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewPendingService creates the PendingService.
func NewPendingService(repo *repository.Repository, store *storage.Store, logger *zap.Logger) PendingService {
	return &pendingService{repo: repo, store: store, logger: logger}
}

func (s *pendingService) Submit(ctx context.Context, actor *Actor, req *dto.SubmitPendingRequest, ip string) (*model.PendingAttendance, error) {
	personnel, err := s.repo.Personnel.GetByID(ctx, req.PersonnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && personnel.StationID != actor.StationID() {
		return nil, ErrAccessDenied
	}

	data, err := storage.DecodeBase64Image(req.Image)
	if err != nil {
		return nil, err
	}
	imagePath, err := s.store.SaveAttendanceImage(req.PersonnelID, "pending_"+toPrefix(req.CaptureType), data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pending := &model.PendingAttendance{
		PersonnelID: req.PersonnelID,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		CaptureType: req.CaptureType,
		ImagePath:   &imagePath,
		Notes:       req.Notes,
	}
	if err := s.repo.Pending.Create(ctx, pending); err != nil {
		s.logger.Error("create pending request failed", zap.Error(err))
		return nil, err
	}

	action := model.ActionCaptureTimeIn
	if req.CaptureType == model.CaptureTimeOut {
		action = model.ActionCaptureTimeOut
	}
	s.logActivity(ctx, actor, action,
		fmt.Sprintf("Submitted %s request for %s", toPrefix(req.CaptureType), personnel.FullName()), ip)
	return pending, nil
}

func (s *pendingService) List(ctx context.Context, actor *Actor, req *dto.PendingListRequest) ([]model.PendingAttendance, int64, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		stationID = actor.StationID()
	}

	return s.repo.Pending.List(ctx, repository.PendingFilter{
		StationID: stationID,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
}

func (s *pendingService) Approve(ctx context.Context, actor *Actor, id string, ip string) error {
	pending, err := s.repo.Pending.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPendingNotFound
		}
		return err
	}

	now := time.Now()
	existing, err := s.repo.Attendance.GetByPersonnelAndDate(ctx, pending.PersonnelID, pending.Date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		switch pending.CaptureType {
		case model.CaptureTimeIn:
			if existing.TimeIn != nil {
				return ErrTimeInExists
			}
			existing.TimeIn = &now
			existing.TimeInImage = pending.ImagePath
		default:
			if existing.TimeOut != nil {
				return ErrTimeOutExists
			}
			existing.TimeOut = &now
			existing.TimeOutImage = pending.ImagePath
		}
		existing.IsApproved = true
		existing.ApprovedBy = &actor.UserID
		if err := s.repo.Attendance.Update(ctx, existing); err != nil {
			return err
		}
	} else {
		record := &model.Attendance{
			PersonnelID: pending.PersonnelID,
			Date:        pending.Date,
			Status:      model.StatusPresent,
			IsManual:    true,
			IsApproved:  true,
			ApprovedBy:  &actor.UserID,
		}
		if pending.CaptureType == model.CaptureTimeIn {
			record.TimeIn = &now
			record.TimeInImage = pending.ImagePath
		} else {
			record.TimeOut = &now
			record.TimeOutImage = pending.ImagePath
		}
		if err := s.repo.Attendance.Create(ctx, record); err != nil {
			return err
		}
	}

	if err := s.repo.Pending.Delete(ctx, id); err != nil {
		return err
	}

	name := ""
	if pending.Personnel != nil {
		name = pending.Personnel.FullName()
	}
	s.logActivity(ctx, actor, model.ActionApprovePending,
		fmt.Sprintf("Approved %s for %s on %s",
			toPrefix(pending.CaptureType), name, pending.Date.Format("2006-01-02")), ip)
	return nil
}

func (s *pendingService) Reject(ctx context.Context, actor *Actor, id string, reason string, ip string) error {
	pending, err := s.repo.Pending.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPendingNotFound
		}
		return err
	}

	if pending.ImagePath != nil {
		if err := s.store.Remove(*pending.ImagePath); err != nil {
			s.logger.Warn("remove pending image failed", zap.Error(err))
		}
	}

	if err := s.repo.Pending.Delete(ctx, id); err != nil {
		return err
	}

	name := ""
	if pending.Personnel != nil {
		name = pending.Personnel.FullName()
	}
	s.logActivity(ctx, actor, model.ActionRejectPending,
		fmt.Sprintf("Rejected %s for %s on %s. Reason: %s",
			toPrefix(pending.CaptureType), name, pending.Date.Format("2006-01-02"), reason), ip)
	return nil
}

// toPrefix lowercases a capture type for filenames and log lines.
func toPrefix(captureType string) string {
	if captureType == model.CaptureTimeIn {
		return "time_in"
	}
	return "time_out"
}

func (s *pendingService) logActivity(ctx context.Context, actor *Actor, action, details, ip string) {
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
