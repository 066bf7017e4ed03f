package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/service"
	pkgerrors "github.com/mikieee25/BFPAttendance/pkg/errors"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// AttendanceHandler serves the attendance endpoints, including the
// recognition capture.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	faceSvc       service.FaceService
}

// NewAttendanceHandler creates the AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService, faceSvc service.FaceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, faceSvc: faceSvc}
}

// Capture recognizes one camera frame and records attendance.
// POST /api/v1/attendance/capture
func (h *AttendanceHandler) Capture(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	result, err := h.faceSvc.Capture(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFaceDetected):
			response.BadRequest(c, 14001, "no face detected in the frame")
		case errors.Is(err, service.ErrNotRecognized):
			response.NotFound(c, 14002, "face not recognized")
		case errors.Is(err, service.ErrNoRegisteredFaces):
			response.BadRequest(c, 14003, "no registered faces to match against")
		case errors.Is(err, service.ErrPersonnelNotFound):
			response.NotFound(c, 13001, "personnel not found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Manual records attendance by hand.
// POST /api/v1/attendance/manual
func (h *AttendanceHandler) Manual(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ManualAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	record, err := h.attendanceSvc.Manual(c.Request.Context(), actor, &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonnelNotFound):
			response.NotFound(c, 13001, "personnel not found")
		case errors.Is(err, service.ErrAccessDenied):
			response.Forbidden(c, 10003, "insufficient permissions")
		case errors.Is(err, service.ErrDuplicateAttendance):
			response.Conflict(c, 14004, "attendance already recorded for this date")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, record)
}

// List returns attendance records.
// GET /api/v1/attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	records, total, err := h.attendanceSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// Get returns one record.
// GET /api/v1/attendance/:id
func (h *AttendanceHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, record)
}

// Update edits one record.
// PUT /api/v1/attendance/:id
func (h *AttendanceHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	record, err := h.attendanceSvc.Update(c.Request.Context(), actor, c.Param("id"), &req, c.ClientIP())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, record)
}

// Delete removes one record.
// DELETE /api/v1/attendance/:id
func (h *AttendanceHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.attendanceSvc.Delete(c.Request.Context(), actor, c.Param("id"), c.ClientIP()); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AttendanceHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 14005, "attendance record not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(c, 10003, "insufficient permissions")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14006, "record changed concurrently, retry")
	default:
		response.InternalError(c)
	}
}
