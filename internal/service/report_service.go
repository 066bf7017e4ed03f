package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/repository"
)

// ReportService is the reporting and dashboard interface.
type ReportService interface {
	Summary(ctx context.Context, actor *Actor, req *dto.ReportRequest) (*dto.SummaryResponse, error)
	// MonthlyTrends returns per-month counts for the trailing year.
	MonthlyTrends(ctx context.Context, actor *Actor) ([]dto.MonthlyTrendItem, error)
	// StationComparison compares all stations over the current month.
	StationComparison(ctx context.Context) ([]dto.StationComparisonItem, error)
	DashboardStats(ctx context.Context, actor *Actor) (*dto.DashboardStatsResponse, error)
}

// recentRecordLimit caps the dashboard's recent activity table.
const recentRecordLimit = 5

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService creates the ReportService.
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Summary(ctx context.Context, actor *Actor, req *dto.ReportRequest) (*dto.SummaryResponse, error) {
	stationID := req.StationID
	if !actor.IsAdmin() {
		stationID = actor.StationID()
	}

	from, to := reportRange(req.DateFrom, req.DateTo)
	counts, err := s.repo.Attendance.CountByStatus(ctx, stationID, from, to)
	if err != nil {
		s.logger.Error("count attendance failed", zap.Error(err))
		return nil, err
	}

	totalPersonnel, err := s.repo.Personnel.CountActive(ctx, stationID)
	if err != nil {
		return nil, err
	}

	daily, err := s.dailyBreakdown(ctx, stationID, from, to)
	if err != nil {
		return nil, err
	}
	perPersonnel, err := s.personnelBreakdown(ctx, stationID, from, to)
	if err != nil {
		return nil, err
	}

	return &dto.SummaryResponse{
		TotalPersonnel:  int(totalPersonnel),
		PresentCount:    counts.Present,
		LateCount:       counts.Late,
		AbsentCount:     counts.Absent,
		AttendanceRate:  attendanceRate(counts),
		PunctualityRate: punctualityRate(counts),
		Daily:           daily,
		Personnel:       perPersonnel,
	}, nil
}

func (s *reportService) dailyBreakdown(ctx context.Context, stationID string, from, to time.Time) ([]dto.DailySummaryItem, error) {
	rows, err := s.repo.Attendance.DailyCounts(ctx, stationID, from, to)
	if err != nil {
		s.logger.Error("daily counts failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.DailySummaryItem, len(rows))
	for i, row := range rows {
		out[i] = dto.DailySummaryItem{
			Date:    row.Day,
			Present: row.Present,
			Late:    row.Late,
			Absent:  row.Absent,
		}
	}
	return out, nil
}

// personnelBreakdown lists the whole roster so personnel without
// records in the range show zero counts.
func (s *reportService) personnelBreakdown(ctx context.Context, stationID string, from, to time.Time) ([]dto.PersonnelSummaryItem, error) {
	roster, err := s.repo.Personnel.ListByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Attendance.PersonnelCounts(ctx, stationID, from, to)
	if err != nil {
		s.logger.Error("personnel counts failed", zap.Error(err))
		return nil, err
	}

	byPersonnel := make(map[string]repository.PersonnelStatusCount, len(rows))
	for _, row := range rows {
		byPersonnel[row.PersonnelID] = row
	}

	out := make([]dto.PersonnelSummaryItem, 0, len(roster))
	for i := range roster {
		p := &roster[i]
		row := byPersonnel[p.PersonnelID]
		out = append(out, dto.PersonnelSummaryItem{
			PersonnelID: p.PersonnelID,
			Name:        p.FullName(),
			BadgeNumber: p.BadgeNumber,
			Present:     row.Present,
			Late:        row.Late,
			Absent:      row.Absent,
		})
	}
	return out, nil
}

func (s *reportService) MonthlyTrends(ctx context.Context, actor *Actor) ([]dto.MonthlyTrendItem, error) {
	rows, err := s.repo.Attendance.MonthlyCounts(ctx, actor.StationID(), 12)
	if err != nil {
		s.logger.Error("monthly counts failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.MonthlyTrendItem, len(rows))
	for i, row := range rows {
		out[i] = dto.MonthlyTrendItem{
			Month:   row.Month,
			Present: row.Present,
			Late:    row.Late,
			Absent:  row.Absent,
		}
	}
	return out, nil
}

func (s *reportService) StationComparison(ctx context.Context) ([]dto.StationComparisonItem, error) {
	stations, err := s.repo.User.ListStations(ctx)
	if err != nil {
		return nil, err
	}

	from, to := reportRange("", "")
	out := make([]dto.StationComparisonItem, 0, len(stations))
	for i := range stations {
		st := &stations[i]
		counts, err := s.repo.Attendance.CountByStatus(ctx, st.UserID, from, to)
		if err != nil {
			return nil, err
		}
		personnel, err := s.repo.Personnel.CountActive(ctx, st.UserID)
		if err != nil {
			return nil, err
		}

		item := dto.StationComparisonItem{
			Personnel:       int(personnel),
			AttendanceRate:  attendanceRate(counts),
			PunctualityRate: punctualityRate(counts),
		}
		if st.StationType != nil {
			item.StationType = *st.StationType
		}
		if st.StationName != nil {
			item.StationName = *st.StationName
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *reportService) DashboardStats(ctx context.Context, actor *Actor) (*dto.DashboardStatsResponse, error) {
	stationID := actor.StationID()
	today := time.Now()

	counts, err := s.repo.Attendance.CountByStatus(ctx, stationID, today, today)
	if err != nil {
		return nil, err
	}
	totalPersonnel, err := s.repo.Personnel.CountActive(ctx, stationID)
	if err != nil {
		return nil, err
	}
	pendingCount, err := s.repo.Pending.Count(ctx, stationID)
	if err != nil {
		return nil, err
	}

	// Personnel with no record today count as absent.
	absent := totalPersonnel - counts.Present - counts.Late
	if absent < 0 {
		absent = 0
	}

	weekly, err := s.dailyBreakdown(ctx, stationID, today.AddDate(0, 0, -6), today)
	if err != nil {
		return nil, err
	}
	recent, err := s.recentRecords(ctx, stationID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalPersonnel: int(totalPersonnel),
		PresentToday:   counts.Present,
		LateToday:      counts.Late,
		AbsentToday:    absent,
		PendingCount:   pendingCount,
		Weekly:         weekly,
		RecentRecords:  recent,
	}, nil
}

// recentRecords returns the latest captures for the dashboard table.
func (s *reportService) recentRecords(ctx context.Context, stationID string) ([]dto.RecentAttendanceItem, error) {
	records, _, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		StationID: stationID,
		Limit:     recentRecordLimit,
	})
	if err != nil {
		s.logger.Error("list recent attendance failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.RecentAttendanceItem, 0, len(records))
	for i := range records {
		rec := &records[i]
		item := dto.RecentAttendanceItem{
			AttendanceID: rec.AttendanceID,
			PersonnelID:  rec.PersonnelID,
			Date:         rec.Date.Format("2006-01-02"),
			TimeIn:       formatClock(rec.TimeIn),
			TimeOut:      formatClock(rec.TimeOut),
			Status:       rec.Status,
		}
		if rec.Personnel != nil {
			item.Name = rec.Personnel.FullName()
		}
		out = append(out, item)
	}
	return out, nil
}

// reportRange parses the requested bounds, defaulting to the current
// calendar month.
func reportRange(fromStr, toStr string) (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if fromStr != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local); err == nil {
			from = parsed
		}
	}
	if toStr != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local); err == nil {
			to = parsed
		}
	}
	return from, to
}

func attendanceRate(counts repository.StatusCounts) float64 {
	total := counts.Present + counts.Late + counts.Absent
	if total == 0 {
		return 0
	}
	return float64(counts.Present+counts.Late) / float64(total) * 100
}

func punctualityRate(counts repository.StatusCounts) float64 {
	onTime := counts.Present + counts.Late
	if onTime == 0 {
		return 0
	}
	return float64(counts.Present) / float64(onTime) * 100
}
