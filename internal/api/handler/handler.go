package handler

import "github.com/mikieee25/BFPAttendance/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Personnel  *PersonnelHandler
	Attendance *AttendanceHandler
	Pending    *PendingHandler
	Report     *ReportHandler
	Export     *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Personnel:  NewPersonnelHandler(svc.Personnel, svc.Face),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Face),
		Pending:    NewPendingHandler(svc.Pending),
		Report:     NewReportHandler(svc.Report),
		Export:     NewExportHandler(svc.Export),
	}
}
