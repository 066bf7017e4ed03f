package dto

// ReportRequest scopes a report query.
type ReportRequest struct {
	StationID string `form:"station_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from"  binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to"    binding:"omitempty,datetime=2006-01-02"`
}

// SummaryResponse aggregates attendance over a period, with per-day
// and per-personnel breakdowns.
type SummaryResponse struct {
	TotalPersonnel  int                    `json:"total_personnel"`
	PresentCount    int64                  `json:"present_count"`
	LateCount       int64                  `json:"late_count"`
	AbsentCount     int64                  `json:"absent_count"`
	AttendanceRate  float64                `json:"attendance_rate"`  // percent
	PunctualityRate float64                `json:"punctuality_rate"` // percent
	Daily           []DailySummaryItem     `json:"daily"`
	Personnel       []PersonnelSummaryItem `json:"personnel"`
}

// DailySummaryItem is one date's counts within a report range.
type DailySummaryItem struct {
	Date    string `json:"date"` // "2006-01-02"
	Present int64  `json:"present"`
	Late    int64  `json:"late"`
	Absent  int64  `json:"absent"`
}

// PersonnelSummaryItem is one personnel's counts within a report
// range. Personnel without records appear with zero counts.
type PersonnelSummaryItem struct {
	PersonnelID string `json:"personnel_id"`
	Name        string `json:"name"`
	BadgeNumber string `json:"badge_number"`
	Present     int64  `json:"present"`
	Late        int64  `json:"late"`
	Absent      int64  `json:"absent"`
}

// MonthlyTrendItem is one month's counts in the 12-month trend.
type MonthlyTrendItem struct {
	Month   string `json:"month"` // "2006-01"
	Present int64  `json:"present"`
	Late    int64  `json:"late"`
	Absent  int64  `json:"absent"`
}

// StationComparisonItem compares one station's rates.
type StationComparisonItem struct {
	StationType     string  `json:"station_type"`
	StationName     string  `json:"station_name"`
	Personnel       int     `json:"personnel"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

// ExportRequest scopes an attendance export.
type ExportRequest struct {
	Format    string `form:"format"     binding:"omitempty,oneof=xlsx csv"`
	StationID string `form:"station_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from"  binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to"    binding:"omitempty,datetime=2006-01-02"`
}

// DashboardStatsResponse feeds the dashboard cards, the recent
// activity table and the 7-day chart.
type DashboardStatsResponse struct {
	TotalPersonnel int                    `json:"total_personnel"`
	PresentToday   int64                  `json:"present_today"`
	LateToday      int64                  `json:"late_today"`
	AbsentToday    int64                  `json:"absent_today"`
	PendingCount   int64                  `json:"pending_count"`
	Weekly         []DailySummaryItem     `json:"weekly"`
	RecentRecords  []RecentAttendanceItem `json:"recent_records"`
}

// RecentAttendanceItem is one row of the dashboard's recent activity.
type RecentAttendanceItem struct {
	AttendanceID string `json:"attendance_id"`
	PersonnelID  string `json:"personnel_id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	TimeIn       string `json:"time_in,omitempty"`
	TimeOut      string `json:"time_out,omitempty"`
	Status       string `json:"status"`
}
