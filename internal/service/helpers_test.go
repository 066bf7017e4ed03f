package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Face: config.FaceConfig{
			DetectorTimeout:      2 * time.Second,
			DetectionConfidence:  0.5,
			RecognitionThreshold: 0.75,
			EmbeddingDim:         4,
			WorkStartTime:        "08:00",
			Cooldown:             60 * time.Second,
		},
		Storage: config.StorageConfig{
			FaceDataDir:        filepath.Join(dir, "faces"),
			AttendanceTempDir:  filepath.Join(dir, "attendance"),
			ImageRetentionDays: 7,
			MaxImageDimension:  1280,
		},
	}
}

func testStore(t *testing.T, cfg *config.Config) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(&cfg.Storage, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func adminActor() *Actor {
	return &Actor{UserID: "admin-1", Role: model.RoleAdmin}
}

func stationActor(stationID string) *Actor {
	return &Actor{UserID: stationID, Role: model.RoleStation}
}

func seedUser(t *testing.T, repo *repository.Repository, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Username:     username,
		Email:        username + "@bfp.test",
		PasswordHash: string(hash),
		Role:         role,
	}
	if role == model.RoleStation {
		stationType := model.StationCentral
		stationName := "Central Fire Station"
		user.StationType = &stationType
		user.StationName = &stationName
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedPersonnel(t *testing.T, repo *repository.Repository, stationID, badge string) *model.Personnel {
	t.Helper()
	p := &model.Personnel{
		StationID:   stationID,
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
		BadgeNumber: badge,
		IsActive:    true,
	}
	if err := repo.Personnel.Create(context.Background(), p); err != nil {
		t.Fatalf("seed personnel: %v", err)
	}
	return p
}

func seedAttendance(t *testing.T, repo *repository.Repository, personnelID string, date time.Time, timeIn, timeOut *time.Time, status string) *model.Attendance {
	t.Helper()
	rec := &model.Attendance{
		PersonnelID: personnelID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		TimeIn:      timeIn,
		TimeOut:     timeOut,
		Status:      status,
	}
	if err := repo.Attendance.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
	return rec
}

func timePtr(t time.Time) *time.Time { return &t }
