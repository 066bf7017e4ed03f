package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
)

func newExportFixture(t *testing.T) (ExportService, *repository.Repository) {
	t.Helper()
	repo := newTestRepo()
	return NewExportService(repo, zap.NewNop()), repo
}

func TestExportAttendanceCSV(t *testing.T) {
	svc, repo := newExportFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-501")

	date := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	seedAttendance(t, repo, p.PersonnelID, date,
		timePtr(date.Add(8*time.Hour)), timePtr(date.Add(17*time.Hour)), model.StatusPresent)

	buf, filename, err := svc.ExportAttendance(context.Background(), adminActor(), &dto.ExportRequest{
		Format: "csv",
	}, "")
	if err != nil {
		t.Fatalf("ExportAttendance: %v", err)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q, want a .csv suffix", filename)
	}

	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv rows = %d, want header + 1 record", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][6] != "Status" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2026-02-09" {
		t.Errorf("date cell = %q, want 2026-02-09", rows[1][0])
	}
	if rows[1][4] != "08:00:00 AM" || rows[1][5] != "05:00:00 PM" {
		t.Errorf("time cells = %q/%q", rows[1][4], rows[1][5])
	}
	if rows[1][6] != model.StatusPresent {
		t.Errorf("status cell = %q, want %q", rows[1][6], model.StatusPresent)
	}
}

func TestExportAttendanceXLSX(t *testing.T) {
	svc, repo := newExportFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-502")

	now := time.Now()
	seedAttendance(t, repo, p.PersonnelID, now, timePtr(now), nil, model.StatusLate)

	buf, filename, err := svc.ExportAttendance(context.Background(), adminActor(), &dto.ExportRequest{}, "")
	if err != nil {
		t.Fatalf("ExportAttendance: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want a .xlsx suffix (default format)", filename)
	}
	if buf.Len() == 0 {
		t.Error("expected a non-empty workbook")
	}
}

func TestExportAttendanceEmpty(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, _, err := svc.ExportAttendance(context.Background(), adminActor(), &dto.ExportRequest{Format: "csv"}, "")
	if !errors.Is(err, ErrExportNoRecords) {
		t.Fatalf("ExportAttendance error = %v, want %v", err, ErrExportNoRecords)
	}
}

func TestExportCalendar(t *testing.T) {
	svc, repo := newExportFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-503")

	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local)
	seedAttendance(t, repo, p.PersonnelID, date,
		timePtr(date.Add(8*time.Hour)), nil, model.StatusLate)

	from := date.AddDate(0, 0, -7)
	to := date.AddDate(0, 0, 7)
	buf, filename, err := svc.ExportCalendar(context.Background(), adminActor(), p.PersonnelID, from, to)
	if err != nil {
		t.Fatalf("ExportCalendar: %v", err)
	}
	if !strings.HasPrefix(filename, "attendance_B-503_") || !strings.HasSuffix(filename, ".ics") {
		t.Errorf("filename = %q", filename)
	}

	ics := buf.String()
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("expected a calendar with at least one event")
	}
	if !strings.Contains(ics, "Juan Dela Cruz (LATE)") {
		t.Error("expected the personnel name and status in the event summary")
	}
}

func TestExportCalendarDeniedForOtherStation(t *testing.T) {
	svc, repo := newExportFixture(t)
	p := seedPersonnel(t, repo, "station-1", "B-504")

	now := time.Now()
	_, _, err := svc.ExportCalendar(context.Background(), stationActor("station-2"), p.PersonnelID, now.AddDate(0, -1, 0), now)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("ExportCalendar error = %v, want %v", err, ErrAccessDenied)
	}
}
