package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
)

func newAttendanceFixture(t *testing.T) (AttendanceService, *repository.Repository) {
	t.Helper()
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAttendanceService(cfg, repo, nil, testStore(t, cfg), zap.NewNop())
	return svc, repo
}

func TestProcessCaptureTimeIn(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-001")

	resp, err := svc.ProcessCapture(context.Background(), p.PersonnelID, 0.91, nil)
	if err != nil {
		t.Fatalf("ProcessCapture: %v", err)
	}
	if resp.Action != dto.CaptureActionTimeIn {
		t.Fatalf("Action = %q, want %q", resp.Action, dto.CaptureActionTimeIn)
	}
	if resp.Personnel == nil || resp.Personnel.ID != p.PersonnelID {
		t.Error("expected matched personnel in response")
	}
	if resp.Time == "" {
		t.Error("expected a formatted capture time")
	}
	if resp.Confidence != 0.91 {
		t.Errorf("Confidence = %v, want 0.91", resp.Confidence)
	}

	rec, err := repo.Attendance.GetByPersonnelAndDate(context.Background(), p.PersonnelID, time.Now())
	if err != nil {
		t.Fatalf("expected a record for today: %v", err)
	}
	if rec.TimeIn == nil {
		t.Error("expected time-in to be set")
	}
	if rec.TimeOut != nil {
		t.Error("a capture must never write the time-out")
	}
	if rec.ConfidenceScore == nil || *rec.ConfidenceScore != 0.91 {
		t.Error("expected confidence score on the record")
	}

	logs := repo.ActivityLog.(*mockActivityLogRepo).logs
	if len(logs) != 1 {
		t.Fatalf("activity log entries = %d, want 1", len(logs))
	}
	if logs[0].Action != model.ActionCaptureTimeIn {
		t.Errorf("Action = %q, want %q", logs[0].Action, model.ActionCaptureTimeIn)
	}
	if logs[0].UserID != nil {
		t.Error("a kiosk capture has no acting user")
	}
}

func TestProcessCaptureCooldown(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-002")

	// A time-in 20 seconds ago is still inside the 60-second window.
	now := time.Now()
	seedAttendance(t, repo, p.PersonnelID, now, timePtr(now.Add(-20*time.Second)), nil, model.StatusPresent)

	resp, err := svc.ProcessCapture(context.Background(), p.PersonnelID, 0.9, nil)
	if err != nil {
		t.Fatalf("ProcessCapture: %v", err)
	}
	if resp.Action != dto.CaptureActionCooldown {
		t.Fatalf("Action = %q, want %q", resp.Action, dto.CaptureActionCooldown)
	}
	if resp.RemainingTime <= 0 || resp.RemainingTime > 60 {
		t.Errorf("RemainingTime = %d, want within (0, 60]", resp.RemainingTime)
	}
	if resp.Message == "" {
		t.Error("expected a wait message")
	}
}

func TestProcessCaptureCooldownOnRecentTimeOut(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-003")

	// Yesterday's record with a time-out seconds ago still blocks.
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	seedAttendance(t, repo, p.PersonnelID, yesterday,
		timePtr(yesterday.Add(-time.Hour)), timePtr(now.Add(-10*time.Second)), model.StatusPresent)

	resp, err := svc.ProcessCapture(context.Background(), p.PersonnelID, 0.9, nil)
	if err != nil {
		t.Fatalf("ProcessCapture: %v", err)
	}
	if resp.Action != dto.CaptureActionCooldown {
		t.Fatalf("Action = %q, want %q", resp.Action, dto.CaptureActionCooldown)
	}
}

func TestProcessCaptureAlreadyRecorded(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-004")

	now := time.Now()
	seedAttendance(t, repo, p.PersonnelID, now, timePtr(now.Add(-2*time.Hour)), nil, model.StatusPresent)

	resp, err := svc.ProcessCapture(context.Background(), p.PersonnelID, 0.9, nil)
	if err != nil {
		t.Fatalf("ProcessCapture: %v", err)
	}
	if resp.Action != dto.CaptureActionAlreadyRecorded {
		t.Fatalf("Action = %q, want %q", resp.Action, dto.CaptureActionAlreadyRecorded)
	}
	if resp.TimeIn == "" {
		t.Error("expected the existing time-in in the response")
	}
	if resp.Message == "" {
		t.Error("expected an already-recorded message while time-out is open")
	}
}

func TestProcessCaptureUnknownPersonnel(t *testing.T) {
	svc, _ := newAttendanceFixture(t)
	if _, err := svc.ProcessCapture(context.Background(), "missing", 0.9, nil); !errors.Is(err, ErrPersonnelNotFound) {
		t.Fatalf("ProcessCapture error = %v, want %v", err, ErrPersonnelNotFound)
	}
}

func TestManualStatusFromTimeIn(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-005")

	tests := []struct {
		name   string
		date   string
		timeIn string
		want   string
	}{
		{"before work start", "2026-03-02", "07:45", model.StatusPresent},
		{"after work start", "2026-03-03", "09:30", model.StatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.Manual(context.Background(), adminActor(), &dto.ManualAttendanceRequest{
				PersonnelID: p.PersonnelID,
				Date:        tt.date,
				TimeIn:      tt.timeIn,
			}, "")
			if err != nil {
				t.Fatalf("Manual: %v", err)
			}
			if rec.Status != tt.want {
				t.Errorf("Status = %q, want %q", rec.Status, tt.want)
			}
			if !rec.IsManual || !rec.IsApproved {
				t.Error("manual entries must be flagged manual and approved")
			}
			if rec.ApprovedBy == nil || *rec.ApprovedBy != "admin-1" {
				t.Error("expected the approving user to be recorded")
			}
		})
	}
}

func TestManualDuplicateDate(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-006")

	req := &dto.ManualAttendanceRequest{
		PersonnelID: p.PersonnelID,
		Date:        "2026-03-04",
		TimeIn:      "08:00",
		TimeOut:     "17:00",
	}
	if _, err := svc.Manual(context.Background(), adminActor(), req, ""); err != nil {
		t.Fatalf("Manual: %v", err)
	}
	if _, err := svc.Manual(context.Background(), adminActor(), req, ""); !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("Manual error = %v, want %v", err, ErrDuplicateAttendance)
	}
}

func TestManualDeniedForOtherStation(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-007")

	_, err := svc.Manual(context.Background(), stationActor("station-2"), &dto.ManualAttendanceRequest{
		PersonnelID: p.PersonnelID,
		Date:        "2026-03-05",
		TimeIn:      "08:00",
	}, "")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Manual error = %v, want %v", err, ErrAccessDenied)
	}
}

func TestUpdateClearsTimeOut(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-008")

	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)
	rec := seedAttendance(t, repo, p.PersonnelID, date,
		timePtr(date.Add(8*time.Hour)), timePtr(date.Add(17*time.Hour)), model.StatusPresent)

	empty := ""
	updated, err := svc.Update(context.Background(), adminActor(), rec.AttendanceID, &dto.UpdateAttendanceRequest{
		TimeOut: &empty,
	}, "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TimeOut != nil {
		t.Error("expected time-out to be cleared")
	}
	if updated.TimeIn == nil {
		t.Error("time-in must be untouched")
	}
}

func TestDeleteAttendance(t *testing.T) {
	svc, repo := newAttendanceFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-009")

	date := time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)
	rec := seedAttendance(t, repo, p.PersonnelID, date, timePtr(date.Add(8*time.Hour)), nil, model.StatusPresent)

	if err := svc.Delete(context.Background(), adminActor(), rec.AttendanceID, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminActor(), rec.AttendanceID); !errors.Is(err, ErrAttendanceNotFound) {
		t.Fatalf("Get after delete error = %v, want %v", err, ErrAttendanceNotFound)
	}
}
