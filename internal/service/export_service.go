package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
)

var (
	ErrExportNoRecords    = errors.New("no attendance records in the selected range")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

var exportHeader = []string{
	"Date", "Badge Number", "Name", "Station", "Time In", "Time Out",
	"Status", "Manual", "Approved",
}

// ExportService renders attendance data as downloadable files.
type ExportService interface {
	// ExportAttendance renders records as .xlsx or .csv.
	ExportAttendance(ctx context.Context, actor *Actor, req *dto.ExportRequest, ip string) (*bytes.Buffer, string, error)
	// ExportCalendar renders one personnel's records as an iCalendar
	// feed, one event per attended day.
	ExportCalendar(ctx context.Context, actor *Actor, personnelID string, from, to time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportAttendance(ctx context.Context, actor *Actor, req *dto.ExportRequest, ip string) (*bytes.Buffer, string, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		stationID = actor.StationID()
	}

	filter := repository.AttendanceFilter{StationID: stationID}
	if req.DateFrom != "" {
		from, _ := time.ParseInLocation("2006-01-02", req.DateFrom, time.Local)
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, _ := time.ParseInLocation("2006-01-02", req.DateTo, time.Local)
		filter.DateTo = &to
	}

	records, err := s.repo.Attendance.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error("load export records failed", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	stamp := time.Now().Format("20060102")
	var buf *bytes.Buffer
	var filename string

	switch req.Format {
	case "csv":
		buf, err = renderCSV(records)
		filename = fmt.Sprintf("attendance_%s.csv", stamp)
	default:
		buf, err = renderXLSX(records)
		filename = fmt.Sprintf("attendance_%s.xlsx", stamp)
	}
	if err != nil {
		s.logger.Error("render export failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logActivity(ctx, actor, fmt.Sprintf("Exported %d attendance record(s) as %s", len(records), filename), ip)
	return buf, filename, nil
}

func (s *exportService) ExportCalendar(ctx context.Context, actor *Actor, personnelID string, from, to time.Time) (*bytes.Buffer, string, error) {
	personnel, err := s.repo.Personnel.GetByID(ctx, personnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPersonnelNotFound
		}
		return nil, "", err
	}
	if !actor.IsAdmin() && personnel.StationID != actor.StationID() {
		return nil, "", ErrAccessDenied
	}

	records, err := s.repo.Attendance.ListByPersonnel(ctx, personnelID, from, to)
	if err != nil {
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//BFP Sorsogon//Attendance//EN")

	for i := range records {
		rec := &records[i]
		if rec.TimeIn == nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@bfp-attendance", rec.AttendanceID))
		event.SetCreatedTime(rec.CreatedAt)
		event.SetStartAt(*rec.TimeIn)
		if rec.TimeOut != nil {
			event.SetEndAt(*rec.TimeOut)
		} else {
			event.SetEndAt(rec.TimeIn.Add(8 * time.Hour))
		}
		event.SetSummary(fmt.Sprintf("%s (%s)", personnel.FullName(), rec.Status))
		if rec.IsManual {
			event.SetDescription("Recorded manually")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("attendance_%s_%s.ics", personnel.BadgeNumber, time.Now().Format("20060102"))
	return buf, filename, nil
}

func renderXLSX(records []model.Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Attendance"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C00000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, title := range exportHeader {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellName, title)
		f.SetCellStyle(sheetName, cellName, cellName, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 20)
	f.SetColWidth(sheetName, "D", "I", 14)

	for rowIdx, rec := range records {
		values := exportRow(&rec)
		for colIdx, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cellName, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func renderCSV(records []model.Attendance) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range records {
		if err := w.Write(exportRow(&records[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

func exportRow(rec *model.Attendance) []string {
	badge, name, station := "", "", ""
	if rec.Personnel != nil {
		badge = rec.Personnel.BadgeNumber
		name = rec.Personnel.FullName()
		if rec.Personnel.Station != nil && rec.Personnel.Station.StationType != nil {
			station = *rec.Personnel.Station.StationType
		}
	}

	return []string{
		rec.Date.Format("2006-01-02"),
		badge,
		name,
		station,
		formatClock(rec.TimeIn),
		formatClock(rec.TimeOut),
		rec.Status,
		yesNo(rec.IsManual),
		yesNo(rec.IsApproved),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (s *exportService) logActivity(ctx context.Context, actor *Actor, details, ip string) {
	log := &model.ActivityLog{
		UserID:  &actor.UserID,
		Action:  model.ActionExportReport,
		Details: details,
	}
	if ip != "" {
		log.IPAddress = &ip
	}
	if err := s.repo.ActivityLog.Create(ctx, log); err != nil {
		s.logger.Warn("write activity log failed", zap.Error(err))
	}
}
