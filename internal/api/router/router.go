package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/api/handler"
	"github.com/mikieee25/BFPAttendance/internal/api/middleware"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
	"github.com/mikieee25/BFPAttendance/pkg/redis"
)

// maxBodyBytes allows a handful of base64 camera frames per request.
const maxBodyBytes = 16 << 20

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Unauthenticated auth endpoints; login is rate limited to slow
		// down credential guessing.
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)
			authorized.PUT("/auth/profile", h.Auth.UpdateProfile)

			// Account management is admin only, except the station list
			// used by filters and dropdowns.
			users := authorized.Group("/users")
			{
				users.GET("/stations", h.User.ListStations)
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.List)
				users.GET("/activity", middleware.RoleAuth(model.RoleAdmin), h.User.ListActivity)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.Get)
				users.POST("", middleware.RoleAuth(model.RoleAdmin), h.User.Create)
				users.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.Update)
				users.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.Delete)
			}

			personnel := authorized.Group("/personnel")
			{
				personnel.GET("", h.Personnel.List)
				personnel.GET("/:id", h.Personnel.Get)
				personnel.POST("", h.Personnel.Create)
				personnel.PUT("/:id", h.Personnel.Update)
				personnel.DELETE("/:id", h.Personnel.Delete)
				personnel.POST("/:id/faces", h.Personnel.RegisterFaces)
			}

			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/capture", middleware.RateLimit(rdb, 60, time.Minute), h.Attendance.Capture)
				attendance.POST("/manual", h.Attendance.Manual)
				attendance.GET("", h.Attendance.List)
				attendance.GET("/:id", h.Attendance.Get)
				attendance.PUT("/:id", h.Attendance.Update)
				attendance.DELETE("/:id", h.Attendance.Delete)
			}

			pending := authorized.Group("/pending")
			{
				pending.POST("", h.Pending.Submit)
				pending.GET("", h.Pending.List)
				pending.POST("/:id/approve", middleware.RoleAuth(model.RoleAdmin), h.Pending.Approve)
				pending.POST("/:id/reject", middleware.RoleAuth(model.RoleAdmin), h.Pending.Reject)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/summary", h.Report.Summary)
				reports.GET("/trends", h.Report.MonthlyTrends)
				reports.GET("/stations", middleware.RoleAuth(model.RoleAdmin), h.Report.StationComparison)
				reports.GET("/dashboard", h.Report.DashboardStats)
			}

			export := authorized.Group("/export")
			{
				export.GET("/attendance", h.Export.ExportAttendance)
				export.GET("/calendar/:id", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
