package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// ReportHandler serves the reporting and dashboard endpoints.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates the ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Summary aggregates attendance for a period.
// GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	summary, err := h.reportSvc.Summary(c.Request.Context(), actor, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// MonthlyTrends returns the trailing-year trend.
// GET /api/v1/reports/trends
func (h *ReportHandler) MonthlyTrends(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	trends, err := h.reportSvc.MonthlyTrends(c.Request.Context(), actor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, trends)
}

// StationComparison compares stations over the current month.
// GET /api/v1/reports/stations
func (h *ReportHandler) StationComparison(c *gin.Context) {
	items, err := h.reportSvc.StationComparison(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}

// DashboardStats feeds the dashboard cards.
// GET /api/v1/reports/dashboard
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	stats, err := h.reportSvc.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}
