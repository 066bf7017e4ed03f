package jwt

import (
	"testing"
	"time"

	"github.com/mikieee25/BFPAttendance/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-at-least-16-chars",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "admin", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want %q", claims.Role, "admin")
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, "access")
	}
	if claims.ID == "" {
		t.Error("expected non-empty JWT ID")
	}
}

func TestGenerateRefreshTokenCarriesStation(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateRefreshToken("user-2", "station", "TALISAY")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, "refresh")
	}
	if claims.StationType != "TALISAY" {
		t.Errorf("StationType = %q, want %q", claims.StationType, "TALISAY")
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-3", "station", "CENTRAL")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("ParseToken error = %v, want ErrTokenExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	m1 := newTestManager(15*time.Minute, time.Hour)
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-16-chars-long",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})

	token, err := m1.GenerateAccessToken("user-4", "admin", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m2.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("ParseToken error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	m := newTestManager(15*time.Minute, time.Hour)
	if _, err := m.ParseToken("not.a.token"); err != ErrTokenInvalid {
		t.Errorf("ParseToken error = %v, want ErrTokenInvalid", err)
	}
}
