package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// PersonnelHandler serves the personnel roster endpoints.
type PersonnelHandler struct {
	personnelSvc service.PersonnelService
	faceSvc      service.FaceService
}

// NewPersonnelHandler creates the PersonnelHandler.
func NewPersonnelHandler(personnelSvc service.PersonnelService, faceSvc service.FaceService) *PersonnelHandler {
	return &PersonnelHandler{personnelSvc: personnelSvc, faceSvc: faceSvc}
}

// List returns personnel visible to the caller.
// GET /api/v1/personnel
func (h *PersonnelHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.PersonnelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	personnel, total, err := h.personnelSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, personnel, total, req.GetPage(), req.GetPageSize())
}

// Get returns one personnel record with its face image count and
// recent attendance.
// GET /api/v1/personnel/:id
func (h *PersonnelHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	detail, err := h.personnelSvc.Detail(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, detail)
}

// Create adds a personnel record.
// POST /api/v1/personnel
func (h *PersonnelHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	p, err := h.personnelSvc.Create(c.Request.Context(), actor, &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadgeTaken):
			response.Conflict(c, 13002, "badge number is already in use")
		case errors.Is(err, service.ErrStationRequired):
			response.BadRequest(c, 13003, "station_id is required")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, p)
}

// Update edits a personnel record.
// PUT /api/v1/personnel/:id
func (h *PersonnelHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	p, err := h.personnelSvc.Update(c.Request.Context(), actor, c.Param("id"), &req, c.ClientIP())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, p)
}

// Delete removes a personnel record and its face data.
// DELETE /api/v1/personnel/:id
func (h *PersonnelHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.personnelSvc.Delete(c.Request.Context(), actor, c.Param("id"), c.ClientIP()); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// RegisterFaces registers face images for a personnel.
// POST /api/v1/personnel/:id/faces
func (h *PersonnelHandler) RegisterFaces(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RegisterFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	result, err := h.faceSvc.RegisterFaces(c.Request.Context(), actor, c.Param("id"), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonnelNotFound):
			response.NotFound(c, 13001, "personnel not found")
		case errors.Is(err, service.ErrAccessDenied):
			response.Forbidden(c, 10003, "insufficient permissions")
		case errors.Is(err, service.ErrNoFaceDetected):
			response.BadRequest(c, 13004, "no usable face in the supplied images")
		case errors.Is(err, service.ErrBadEmbeddingDim):
			response.InternalError(c)
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

func (h *PersonnelHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 13001, "personnel not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(c, 10003, "insufficient permissions")
	default:
		response.InternalError(c)
	}
}
