package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	pkgerrors "github.com/mikieee25/BFPAttendance/pkg/errors"
)

func newTestRepo() *repository.Repository {
	return &repository.Repository{
		User:        newMockUserRepo(),
		Personnel:   newMockPersonnelRepo(),
		Attendance:  newMockAttendanceRepo(),
		FaceData:    newMockFaceDataRepo(),
		Pending:     newMockPendingRepo(),
		ActivityLog: newMockActivityLogRepo(),
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStationType(_ context.Context, stationType string) (*model.User, error) {
	for _, u := range m.users {
		if u.StationType != nil && *u.StationType == stationType {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) ListStations(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleStation {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock PersonnelRepository ──

type mockPersonnelRepo struct {
	personnel map[string]*model.Personnel
	seq       int
}

func newMockPersonnelRepo() *mockPersonnelRepo {
	return &mockPersonnelRepo{personnel: make(map[string]*model.Personnel)}
}

func (m *mockPersonnelRepo) Create(_ context.Context, p *model.Personnel) error {
	if p.PersonnelID == "" {
		m.seq++
		p.PersonnelID = fmt.Sprintf("personnel-%d", m.seq)
	}
	m.personnel[p.PersonnelID] = p
	return nil
}

func (m *mockPersonnelRepo) GetByID(_ context.Context, id string) (*model.Personnel, error) {
	if p, ok := m.personnel[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) GetByBadgeNumber(_ context.Context, badge string) (*model.Personnel, error) {
	for _, p := range m.personnel {
		if p.BadgeNumber == badge {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) Update(_ context.Context, p *model.Personnel) error {
	m.personnel[p.PersonnelID] = p
	return nil
}

func (m *mockPersonnelRepo) Delete(_ context.Context, id string) error {
	delete(m.personnel, id)
	return nil
}

func (m *mockPersonnelRepo) List(_ context.Context, filter repository.PersonnelFilter) ([]model.Personnel, int64, error) {
	var result []model.Personnel
	for _, p := range m.personnel {
		if filter.StationID != "" && p.StationID != filter.StationID {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockPersonnelRepo) ListByStation(_ context.Context, stationID string) ([]model.Personnel, error) {
	var result []model.Personnel
	for _, p := range m.personnel {
		if stationID == "" || p.StationID == stationID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPersonnelRepo) CountActive(_ context.Context, stationID string) (int64, error) {
	var n int64
	for _, p := range m.personnel {
		if !p.IsActive {
			continue
		}
		if stationID != "" && p.StationID != stationID {
			continue
		}
		n++
	}
	return n, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.Attendance
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.Attendance)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	if a.AttendanceID == "" {
		m.seq++
		a.AttendanceID = fmt.Sprintf("attendance-%d", m.seq)
	}
	m.records[a.AttendanceID] = a
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if a, ok := m.records[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByPersonnelAndDate(_ context.Context, personnelID string, date time.Time) (*model.Attendance, error) {
	day := date.Format("2006-01-02")
	for _, a := range m.records {
		if a.PersonnelID == personnelID && a.Date.Format("2006-01-02") == day {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetRecentEvent(_ context.Context, personnelID string, since time.Time) (*model.Attendance, error) {
	for _, a := range m.records {
		if a.PersonnelID != personnelID {
			continue
		}
		if a.TimeIn != nil && !a.TimeIn.Before(since) {
			return a, nil
		}
		if a.TimeOut != nil && !a.TimeOut.Before(since) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	existing, ok := m.records[a.AttendanceID]
	if ok && existing.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version++
	m.records[a.AttendanceID] = a
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockAttendanceRepo) matches(a *model.Attendance, filter repository.AttendanceFilter) bool {
	if filter.PersonnelID != "" && a.PersonnelID != filter.PersonnelID {
		return false
	}
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if filter.DateFrom != nil && a.Date.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && a.Date.After(*filter.DateTo) {
		return false
	}
	return true
}

func (m *mockAttendanceRepo) List(_ context.Context, filter repository.AttendanceFilter) ([]model.Attendance, int64, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if m.matches(a, filter) {
			result = append(result, *a)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockAttendanceRepo) ListAll(_ context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	list, _, err := m.List(context.Background(), filter)
	return list, err
}

func (m *mockAttendanceRepo) ListByPersonnel(_ context.Context, personnelID string, from, to time.Time) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if a.PersonnelID != personnelID {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByStatus(_ context.Context, stationID string, from, to time.Time) (repository.StatusCounts, error) {
	var counts repository.StatusCounts
	for _, a := range m.records {
		day := a.Date.Format("2006-01-02")
		if day < from.Format("2006-01-02") || day > to.Format("2006-01-02") {
			continue
		}
		switch a.Status {
		case model.StatusPresent:
			counts.Present++
		case model.StatusLate:
			counts.Late++
		case model.StatusAbsent:
			counts.Absent++
		}
	}
	return counts, nil
}

func (m *mockAttendanceRepo) DailyCounts(_ context.Context, stationID string, from, to time.Time) ([]repository.DailyCount, error) {
	byDay := make(map[string]*repository.DailyCount)
	for _, a := range m.records {
		day := a.Date.Format("2006-01-02")
		if day < from.Format("2006-01-02") || day > to.Format("2006-01-02") {
			continue
		}
		dc, ok := byDay[day]
		if !ok {
			dc = &repository.DailyCount{Day: day}
			byDay[day] = dc
		}
		switch a.Status {
		case model.StatusPresent:
			dc.Present++
		case model.StatusLate:
			dc.Late++
		case model.StatusAbsent:
			dc.Absent++
		}
	}
	var result []repository.DailyCount
	for _, dc := range byDay {
		result = append(result, *dc)
	}
	return result, nil
}

func (m *mockAttendanceRepo) PersonnelCounts(_ context.Context, stationID string, from, to time.Time) ([]repository.PersonnelStatusCount, error) {
	byPersonnel := make(map[string]*repository.PersonnelStatusCount)
	for _, a := range m.records {
		day := a.Date.Format("2006-01-02")
		if day < from.Format("2006-01-02") || day > to.Format("2006-01-02") {
			continue
		}
		pc, ok := byPersonnel[a.PersonnelID]
		if !ok {
			pc = &repository.PersonnelStatusCount{PersonnelID: a.PersonnelID}
			byPersonnel[a.PersonnelID] = pc
		}
		switch a.Status {
		case model.StatusPresent:
			pc.Present++
		case model.StatusLate:
			pc.Late++
		case model.StatusAbsent:
			pc.Absent++
		}
	}
	var result []repository.PersonnelStatusCount
	for _, pc := range byPersonnel {
		result = append(result, *pc)
	}
	return result, nil
}

func (m *mockAttendanceRepo) MonthlyCounts(_ context.Context, stationID string, months int) ([]repository.MonthlyCount, error) {
	byMonth := make(map[string]*repository.MonthlyCount)
	for _, a := range m.records {
		month := a.Date.Format("2006-01")
		mc, ok := byMonth[month]
		if !ok {
			mc = &repository.MonthlyCount{Month: month}
			byMonth[month] = mc
		}
		switch a.Status {
		case model.StatusPresent:
			mc.Present++
		case model.StatusLate:
			mc.Late++
		case model.StatusAbsent:
			mc.Absent++
		}
	}
	var result []repository.MonthlyCount
	for _, mc := range byMonth {
		result = append(result, *mc)
	}
	return result, nil
}

// ── Mock FaceDataRepository ──

type mockFaceDataRepo struct {
	rows map[string]*model.FaceData
	seq  int
}

func newMockFaceDataRepo() *mockFaceDataRepo {
	return &mockFaceDataRepo{rows: make(map[string]*model.FaceData)}
}

func (m *mockFaceDataRepo) Create(_ context.Context, fd *model.FaceData) error {
	if fd.FaceDataID == "" {
		m.seq++
		fd.FaceDataID = fmt.Sprintf("face-%d", m.seq)
	}
	m.rows[fd.FaceDataID] = fd
	return nil
}

func (m *mockFaceDataRepo) ListByPersonnel(_ context.Context, personnelID string) ([]model.FaceData, error) {
	var result []model.FaceData
	for _, fd := range m.rows {
		if fd.PersonnelID == personnelID {
			result = append(result, *fd)
		}
	}
	return result, nil
}

func (m *mockFaceDataRepo) ListAll(_ context.Context, stationID string) ([]model.FaceData, error) {
	var result []model.FaceData
	for _, fd := range m.rows {
		result = append(result, *fd)
	}
	return result, nil
}

func (m *mockFaceDataRepo) DeleteByPersonnel(_ context.Context, personnelID string) error {
	for id, fd := range m.rows {
		if fd.PersonnelID == personnelID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *mockFaceDataRepo) CountByPersonnel(_ context.Context, personnelID string) (int64, error) {
	var n int64
	for _, fd := range m.rows {
		if fd.PersonnelID == personnelID {
			n++
		}
	}
	return n, nil
}

// ── Mock PendingRepository ──

type mockPendingRepo struct {
	rows map[string]*model.PendingAttendance
	seq  int
}

func newMockPendingRepo() *mockPendingRepo {
	return &mockPendingRepo{rows: make(map[string]*model.PendingAttendance)}
}

func (m *mockPendingRepo) Create(_ context.Context, p *model.PendingAttendance) error {
	if p.PendingID == "" {
		m.seq++
		p.PendingID = fmt.Sprintf("pending-%d", m.seq)
	}
	m.rows[p.PendingID] = p
	return nil
}

func (m *mockPendingRepo) GetByID(_ context.Context, id string) (*model.PendingAttendance, error) {
	if p, ok := m.rows[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPendingRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *mockPendingRepo) List(_ context.Context, filter repository.PendingFilter) ([]model.PendingAttendance, int64, error) {
	var result []model.PendingAttendance
	for _, p := range m.rows {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockPendingRepo) Count(_ context.Context, stationID string) (int64, error) {
	return int64(len(m.rows)), nil
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct {
	logs []model.ActivityLog
}

func newMockActivityLogRepo() *mockActivityLogRepo {
	return &mockActivityLogRepo{}
}

func (m *mockActivityLogRepo) Create(_ context.Context, log *model.ActivityLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityLogRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]model.ActivityLog, int64, error) {
	return m.logs, int64(len(m.logs)), nil
}
