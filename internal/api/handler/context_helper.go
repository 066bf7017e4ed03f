package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
	"github.com/mikieee25/BFPAttendance/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the JWT
// middleware did not inject it, writes a 401 and returns false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetActor builds the service-layer actor from the authenticated
// identity.
func MustGetActor(c *gin.Context) (*service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	role, ok := v.(string)
	if !ok || role == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return &service.Actor{UserID: userID, Role: role}, true
}

// MustGetClaims extracts the parsed token claims.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return claims, true
}
