package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
	contentTypeICS  = "text/calendar"
)

// ExportHandler serves the download endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance downloads attendance records as .xlsx or .csv.
// GET /api/v1/export/attendance
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), actor, &req, c.ClientIP())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	contentType := contentTypeXLSX
	if req.Format == "csv" {
		contentType = contentTypeCSV
	}
	writeDownload(c, filename, contentType, buf.Bytes())
}

// ExportCalendar downloads one personnel's records as an iCalendar
// feed.
// GET /api/v1/export/calendar/:id
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := c.Query("date_from"); v != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			from = parsed
		}
	}
	if v := c.Query("date_to"); v != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			to = parsed
		}
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), actor, c.Param("id"), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 16001, "no attendance records in the selected range")
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 13001, "personnel not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(c, 10003, "insufficient permissions")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

func writeDownload(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
