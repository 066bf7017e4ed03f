package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
)

func newAuthFixture(t *testing.T) (AuthService, *mockUserRepo) {
	t.Helper()
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	return svc, repo.User.(*mockUserRepo)
}

func TestLogin(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	seedUser(t, repo, "central", "station-pass", model.RoleStation)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"ok", "central", "station-pass", nil},
		{"wrong password", "central", "not-the-password", ErrInvalidCredentials},
		{"unknown user", "nobody", "station-pass", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &dto.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			}, "127.0.0.1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if resp.AccessToken == "" || resp.RefreshToken == "" {
				t.Error("expected both tokens to be issued")
			}
			if resp.User.Username != "central" {
				t.Errorf("User.Username = %q, want central", resp.User.Username)
			}
			if resp.User.StationType == nil || *resp.User.StationType != model.StationCentral {
				t.Error("expected station type in user payload")
			}
		})
	}
}

func TestLoginWritesActivityLog(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	seedUser(t, repo, "admin", "admin-pass", model.RoleAdmin)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "admin-pass"}, "10.0.0.1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	logs := repo.ActivityLog.(*mockActivityLogRepo).logs
	if len(logs) != 1 {
		t.Fatalf("activity log entries = %d, want 1", len(logs))
	}
	if logs[0].Action != model.ActionLogin {
		t.Errorf("Action = %q, want %q", logs[0].Action, model.ActionLogin)
	}
	if logs[0].IPAddress == nil || *logs[0].IPAddress != "10.0.0.1" {
		t.Error("expected client IP on the log entry")
	}
}

func TestRefresh(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	seedUser(t, repo, "central", "station-pass", model.RoleStation)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "central", Password: "station-pass"}, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected a fresh token pair")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	seedUser(t, repo, "central", "station-pass", model.RoleStation)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "central", Password: "station-pass"}, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.AccessToken}); !errors.Is(err, ErrNotRefreshToken) {
		t.Fatalf("Refresh error = %v, want %v", err, ErrNotRefreshToken)
	}
}

func TestChangePassword(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	user := seedUser(t, repo, "admin", "old-password", model.RoleAdmin)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-old",
		NewPassword: "brand-new-pass",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("ChangePassword error = %v, want %v", err, ErrWrongPassword)
	}

	err = svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "brand-new-pass",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "brand-new-pass"}, ""); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "old-password"}, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login with old password error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestUpdateProfile(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	user := seedUser(t, repo, "central", "station-pass", model.RoleStation)

	email := "central@bfp.gov.ph"
	name := "Sorsogon Central Fire Station"
	image := testImage()
	resp, err := svc.UpdateProfile(context.Background(), user.UserID, &dto.UpdateProfileRequest{
		Email:        &email,
		StationName:  &name,
		ProfileImage: &image,
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Email != email {
		t.Errorf("Email = %q, want %q", resp.Email, email)
	}
	if resp.StationName == nil || *resp.StationName != name {
		t.Error("expected station name on the response")
	}
	if resp.ProfileImage == nil || *resp.ProfileImage == "" {
		t.Fatal("expected a stored profile image path")
	}

	stored, err := repo.User.GetByID(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ProfileImage == nil || *stored.ProfileImage != *resp.ProfileImage {
		t.Error("profile image path was not persisted")
	}

	logs := repo.ActivityLog.(*mockActivityLogRepo).logs
	if len(logs) != 1 || logs[0].Action != model.ActionUpdateUser {
		t.Errorf("expected one %q activity log entry, got %+v", model.ActionUpdateUser, logs)
	}
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	cfg := testConfig(t)
	repo := newTestRepo()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testStore(t, cfg), zap.NewNop())
	user := seedUser(t, repo, "central", "station-pass", model.RoleStation)
	other := seedUser(t, repo, "talisay", "station-pass", model.RoleStation)

	if _, err := svc.UpdateProfile(context.Background(), user.UserID, &dto.UpdateProfileRequest{
		Email: &other.Email,
	}, ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("UpdateProfile error = %v, want %v", err, ErrEmailTaken)
	}
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if _, err := svc.Me(context.Background(), "missing-user"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Me error = %v, want %v", err, ErrUserNotFound)
	}
}
