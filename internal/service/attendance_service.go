package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/observability"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
	"github.com/mikieee25/BFPAttendance/pkg/redis"
)

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("attendance already recorded for this date")
)

const clockFormat = "03:04:05 PM"

// AttendanceService is the attendance business interface.
type AttendanceService interface {
	// ProcessCapture applies the capture rules for an already
	// recognized personnel: cooldown, one record per date, late
	// marking. It never writes a time-out.
	ProcessCapture(ctx context.Context, personnelID string, confidence float64, image []byte) (*dto.CaptureResponse, error)
	Manual(ctx context.Context, actor *Actor, req *dto.ManualAttendanceRequest, ip string) (*model.Attendance, error)
	Get(ctx context.Context, actor *Actor, id string) (*model.Attendance, error)
	List(ctx context.Context, actor *Actor, req *dto.AttendanceListRequest) ([]model.Attendance, int64, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateAttendanceRequest, ip string) (*model.Attendance, error)
	Delete(ctx context.Context, actor *Actor, id string, ip string) error
}

type attendanceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	store  *storage.Store
	logger *zap.Logger
}

// NewAttendanceService creates the AttendanceService.
func NewAttendanceService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	store *storage.Store,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{cfg: cfg, repo: repo, rdb: rdb, store: store, logger: logger}
}

func (s *attendanceService) ProcessCapture(ctx context.Context, personnelID string, confidence float64, image []byte) (*dto.CaptureResponse, error) {
	personnel, err := s.repo.Personnel.GetByID(ctx, personnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, err
	}
	brief := toPersonnelBrief(personnel)

	now := time.Now()
	cooldown := s.cfg.Face.Cooldown

	// Redis fast path. The database check below stays authoritative.
	if s.rdb != nil {
		remaining, err := s.rdb.CooldownRemaining(ctx, personnelID)
		if err != nil {
			s.logger.Warn("cooldown fast path failed", zap.Error(err))
		} else if remaining > 0 {
			observability.RecordCapture(observability.OutcomeCooldown)
			return cooldownResponse(brief, remaining, nil), nil
		}
	}

	// Any recent time-in or time-out blocks a new event, even across
	// calendar dates.
	recent, err := s.repo.Attendance.GetRecentEvent(ctx, personnelID, now.Add(-cooldown))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if recent != nil {
		last := recent.TimeIn
		if recent.TimeOut != nil && recent.TimeOut.After(now.Add(-cooldown)) {
			last = recent.TimeOut
		}
		if last != nil {
			remaining := cooldown - now.Sub(*last)
			observability.RecordCapture(observability.OutcomeCooldown)
			return cooldownResponse(brief, remaining, recent), nil
		}
	}

	today := now
	attendance, err := s.repo.Attendance.GetByPersonnelAndDate(ctx, personnelID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if attendance != nil {
		// A capture never writes the time-out; that goes through the
		// approval flow.
		resp := &dto.CaptureResponse{
			Action:    dto.CaptureActionAlreadyRecorded,
			Personnel: brief,
			TimeIn:    formatClock(attendance.TimeIn),
			TimeOut:   formatClock(attendance.TimeOut),
		}
		if attendance.TimeOut == nil {
			resp.Message = "You have already recorded your time-in for today"
		}
		observability.RecordCapture(observability.OutcomeAlreadyRecorded)
		return resp, nil
	}

	status := model.StatusPresent
	if s.isLate(now) {
		status = model.StatusLate
	}

	var imagePath *string
	if len(image) > 0 {
		path, err := s.store.SaveAttendanceImage(personnelID, "time_in", image)
		if err != nil {
			s.logger.Warn("save capture image failed", zap.Error(err))
		} else {
			imagePath = &path
		}
	}

	record := &model.Attendance{
		PersonnelID:     personnelID,
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		TimeIn:          &now,
		Status:          status,
		TimeInImage:     imagePath,
		ConfidenceScore: &confidence,
	}
	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		s.logger.Error("create attendance failed", zap.Error(err))
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.MarkCooldown(ctx, personnelID, cooldown); err != nil {
			s.logger.Warn("mark cooldown failed", zap.Error(err))
		}
	}

	observability.RecordCapture(observability.OutcomeTimeIn)
	s.logSystemActivity(ctx, model.ActionCaptureTimeIn,
		fmt.Sprintf("Camera time-in for %s", personnel.FullName()))

	return &dto.CaptureResponse{
		Action:     dto.CaptureActionTimeIn,
		Personnel:  brief,
		Time:       now.Format(clockFormat),
		Status:     status,
		Confidence: confidence,
	}, nil
}

func (s *attendanceService) Manual(ctx context.Context, actor *Actor, req *dto.ManualAttendanceRequest, ip string) (*model.Attendance, error) {
	personnel, err := s.getAccessiblePersonnel(ctx, actor, req.PersonnelID)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	if _, err := s.repo.Attendance.GetByPersonnelAndDate(ctx, req.PersonnelID, date); err == nil {
		return nil, ErrDuplicateAttendance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	timeIn, err := combineDateTime(date, req.TimeIn)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusPresent
		if s.isLate(*timeIn) {
			status = model.StatusLate
		}
	}

	record := &model.Attendance{
		PersonnelID: req.PersonnelID,
		Date:        date,
		TimeIn:      timeIn,
		Status:      status,
		IsManual:    true,
		IsApproved:  true,
		ApprovedBy:  &actor.UserID,
	}
	if req.TimeOut != "" {
		timeOut, err := combineDateTime(date, req.TimeOut)
		if err != nil {
			return nil, err
		}
		record.TimeOut = timeOut
	}

	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		s.logger.Error("create manual attendance failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionManualAttendance,
		fmt.Sprintf("Manual entry for %s on %s", personnel.FullName(), req.Date), ip)
	return record, nil
}

func (s *attendanceService) Get(ctx context.Context, actor *Actor, id string) (*model.Attendance, error) {
	record, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && record.Personnel != nil && record.Personnel.StationID != actor.StationID() {
		return nil, ErrAccessDenied
	}
	return record, nil
}

func (s *attendanceService) List(ctx context.Context, actor *Actor, req *dto.AttendanceListRequest) ([]model.Attendance, int64, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		stationID = actor.StationID()
	}

	filter := repository.AttendanceFilter{
		StationID:   stationID,
		PersonnelID: req.PersonnelID,
		Status:      req.Status,
		Offset:      req.GetOffset(),
		Limit:       req.GetPageSize(),
	}
	if req.DateFrom != "" {
		from, _ := time.ParseInLocation("2006-01-02", req.DateFrom, time.Local)
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, _ := time.ParseInLocation("2006-01-02", req.DateTo, time.Local)
		filter.DateTo = &to
	}

	return s.repo.Attendance.List(ctx, filter)
}

func (s *attendanceService) Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateAttendanceRequest, ip string) (*model.Attendance, error) {
	record, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.TimeIn != nil {
		timeIn, err := combineDateTime(record.Date, *req.TimeIn)
		if err != nil {
			return nil, err
		}
		record.TimeIn = timeIn
	}
	if req.TimeOut != nil {
		if *req.TimeOut == "" {
			record.TimeOut = nil
		} else {
			timeOut, err := combineDateTime(record.Date, *req.TimeOut)
			if err != nil {
				return nil, err
			}
			record.TimeOut = timeOut
		}
	}
	if req.Status != nil {
		record.Status = *req.Status
	}

	if err := s.repo.Attendance.Update(ctx, record); err != nil {
		s.logger.Error("update attendance failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionEditAttendance,
		fmt.Sprintf("Edited attendance %s", id), ip)
	return record, nil
}

func (s *attendanceService) Delete(ctx context.Context, actor *Actor, id string, ip string) error {
	record, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	for _, path := range []*string{record.TimeInImage, record.TimeOutImage} {
		if path != nil {
			if err := s.store.Remove(*path); err != nil {
				s.logger.Warn("remove attendance image failed", zap.Error(err))
			}
		}
	}

	if err := s.repo.Attendance.Delete(ctx, id); err != nil {
		s.logger.Error("delete attendance failed", zap.Error(err))
		return err
	}

	s.logActivity(ctx, actor, model.ActionDeleteAttendance,
		fmt.Sprintf("Deleted attendance %s", id), ip)
	return nil
}

func (s *attendanceService) getAccessiblePersonnel(ctx context.Context, actor *Actor, personnelID string) (*model.Personnel, error) {
	p, err := s.repo.Personnel.GetByID(ctx, personnelID)
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

// isLate reports whether t falls after the workday start.
func (s *attendanceService) isLate(t time.Time) bool {
	start, err := time.Parse("15:04", s.cfg.Face.WorkStartTime)
	if err != nil {
		return false
	}
	workStart := time.Date(t.Year(), t.Month(), t.Day(), start.Hour(), start.Minute(), 0, 0, t.Location())
	return t.After(workStart)
}

func (s *attendanceService) logActivity(ctx context.Context, actor *Actor, action, details, ip string) {
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

// logSystemActivity records an action with no acting user, for events
// the unattended kiosk triggers on its own.
func (s *attendanceService) logSystemActivity(ctx context.Context, action, details string) {
	log := &model.ActivityLog{
		Action:  action,
		Details: details,
	}
	if err := s.repo.ActivityLog.Create(ctx, log); err != nil {
		s.logger.Warn("write activity log failed", zap.Error(err))
	}
}

func cooldownResponse(brief *dto.PersonnelBrief, remaining time.Duration, record *model.Attendance) *dto.CaptureResponse {
	seconds := int(remaining.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	resp := &dto.CaptureResponse{
		Action:        dto.CaptureActionCooldown,
		Personnel:     brief,
		Message:       fmt.Sprintf("Please wait %d seconds before recording attendance again", seconds),
		RemainingTime: seconds,
	}
	if record != nil {
		resp.TimeIn = formatClock(record.TimeIn)
		resp.TimeOut = formatClock(record.TimeOut)
	}
	return resp
}

func combineDateTime(date time.Time, clock string) (*time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", clock, err)
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	return &combined, nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(clockFormat)
}

func toPersonnelBrief(p *model.Personnel) *dto.PersonnelBrief {
	brief := &dto.PersonnelBrief{
		ID:   p.PersonnelID,
		Name: p.FullName(),
	}
	if p.Station != nil && p.Station.StationType != nil {
		brief.Station = *p.Station.StationType
	}
	return brief
}
