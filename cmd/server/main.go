package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/api/handler"
	"github.com/mikieee25/BFPAttendance/internal/api/router"
	"github.com/mikieee25/BFPAttendance/internal/face"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/service"
	"github.com/mikieee25/BFPAttendance/internal/storage"
	"github.com/mikieee25/BFPAttendance/pkg/database"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
	applogger "github.com/mikieee25/BFPAttendance/pkg/logger"
	"github.com/mikieee25/BFPAttendance/pkg/redis"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// Redis is optional; without it the token blacklist, rate limiting
	// and the cooldown fast path degrade gracefully.
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running degraded", zap.Error(err))
		rdb = nil
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	store, err := storage.NewStore(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("init image storage failed", zap.Error(err))
	}

	faceClient := face.NewClient(&cfg.Face)
	faceIndex := face.NewIndex()

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, faceClient, faceIndex, store, logger)
	h := handler.NewHandler(svc)

	// Load stored embeddings so recognition works from the first
	// request.
	if err := svc.Face.WarmIndex(context.Background()); err != nil {
		logger.Fatal("warm face index failed", zap.Error(err))
	}

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go retentionSweep(sweepCtx, store, logger)

	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}

// retentionSweep removes expired attendance capture images once a day.
func retentionSweep(ctx context.Context, store *storage.Store, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.CleanupAttendanceImages()
			if err != nil {
				logger.Warn("image retention sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("image retention sweep completed", zap.Int("removed", removed))
			}
		}
	}
}
