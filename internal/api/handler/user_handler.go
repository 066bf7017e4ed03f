package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// UserHandler serves the account management endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List returns accounts.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Get returns one account.
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// Create creates an account.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), actor, &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, 12002, "username is already taken")
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 12003, "email is already registered")
		case errors.Is(err, service.ErrStationTaken):
			response.Conflict(c, 12004, "station already has an account")
		case errors.Is(err, service.ErrStationTypeRequired),
			errors.Is(err, service.ErrStationTypeInvalid):
			response.BadRequest(c, 12005, "station type is missing or invalid")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, user)
}

// Update edits an account.
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), actor, c.Param("id"), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "user not found")
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 12003, "email is already registered")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// Delete removes an account.
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), actor, c.Param("id"), c.ClientIP()); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "user not found")
		case errors.Is(err, service.ErrSelfDelete):
			response.BadRequest(c, 12006, "cannot delete your own account")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListStations returns all station accounts.
// GET /api/v1/users/stations
func (h *UserHandler) ListStations(c *gin.Context) {
	stations, err := h.userSvc.ListStations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stations)
}

// ListActivity returns the activity log.
// GET /api/v1/users/activity
func (h *UserHandler) ListActivity(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	logs, total, err := h.userSvc.ListActivity(c.Request.Context(), repository.ActivityLogFilter{
		UserID: c.Query("user_id"),
		Action: c.Query("action"),
		Offset: page.GetOffset(),
		Limit:  page.GetPageSize(),
	})
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, logs, total, page.GetPage(), page.GetPageSize())
}
