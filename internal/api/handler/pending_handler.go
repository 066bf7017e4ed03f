package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/service"
	pkgerrors "github.com/mikieee25/BFPAttendance/pkg/errors"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// PendingHandler serves the attendance approval workflow endpoints.
type PendingHandler struct {
	pendingSvc service.PendingService
}

// NewPendingHandler creates the PendingHandler.
func NewPendingHandler(pendingSvc service.PendingService) *PendingHandler {
	return &PendingHandler{pendingSvc: pendingSvc}
}

// Submit files an attendance request for review.
// POST /api/v1/pending
func (h *PendingHandler) Submit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmitPendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	pending, err := h.pendingSvc.Submit(c.Request.Context(), actor, &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonnelNotFound):
			response.NotFound(c, 13001, "personnel not found")
		case errors.Is(err, service.ErrAccessDenied):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, pending)
}

// List returns pending requests.
// GET /api/v1/pending
func (h *PendingHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.PendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	pending, total, err := h.pendingSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, pending, total, req.GetPage(), req.GetPageSize())
}

// Approve merges a request into the attendance table.
// POST /api/v1/pending/:id/approve
func (h *PendingHandler) Approve(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.pendingSvc.Approve(c.Request.Context(), actor, c.Param("id"), c.ClientIP()); err != nil {
		switch {
		case errors.Is(err, service.ErrPendingNotFound):
			response.NotFound(c, 15001, "pending request not found")
		case errors.Is(err, service.ErrTimeInExists):
			response.Conflict(c, 15002, "time-in already recorded for this date")
		case errors.Is(err, service.ErrTimeOutExists):
			response.Conflict(c, 15003, "time-out already recorded for this date")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 15004, "record changed concurrently, retry")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Reject discards a request.
// POST /api/v1/pending/:id/reject
func (h *PendingHandler) Reject(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RejectPendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	if err := h.pendingSvc.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason, c.ClientIP()); err != nil {
		if errors.Is(err, service.ErrPendingNotFound) {
			response.NotFound(c, 15001, "pending request not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
