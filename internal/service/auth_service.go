package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/config"
	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
	"github.com/mikieee25/BFPAttendance/internal/storage"
	"github.com/mikieee25/BFPAttendance/pkg/jwt"
	"github.com/mikieee25/BFPAttendance/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrNotRefreshToken    = errors.New("token is not a refresh token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService is the authentication business interface.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims, ip string) error
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	// UpdateProfile edits the caller's own email, station name and
	// profile photo.
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest, ip string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	store  *storage.Store
	logger *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store *storage.Store,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		store:  store,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, user.UserID, model.ActionLogin, "Signed in", ip)

	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, ip string) error {
	if s.rdb != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Error("blacklist token failed", zap.Error(err))
			return err
		}
	}

	s.logActivity(ctx, claims.UserID, model.ActionLogout, "Signed out", ip)
	return nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrNotRefreshToken
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Rotate: the used refresh token is revoked.
	if s.rdb != nil && claims.ExpiresAt != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("revoke used refresh token failed", zap.Error(err))
		}
	}

	return s.tokenPair(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &dto.UserDetailResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	return s.repo.User.Update(ctx, user)
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest, ip string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.StationName != nil {
		user.StationName = req.StationName
	}
	if req.ProfileImage != nil {
		data, err := storage.DecodeBase64Image(*req.ProfileImage)
		if err != nil {
			return nil, err
		}
		path, err := s.store.SaveProfileImage(user.UserID, data)
		if err != nil {
			s.logger.Error("save profile image failed", zap.Error(err))
			return nil, err
		}
		if user.ProfileImage != nil {
			if err := s.store.Remove(*user.ProfileImage); err != nil {
				s.logger.Warn("remove old profile image failed", zap.Error(err))
			}
		}
		user.ProfileImage = &path
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update profile failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, user.UserID, model.ActionUpdateUser, "Updated own profile", ip)

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) tokenPair(user *model.User) (*dto.TokenResponse, error) {
	stationType := ""
	if user.StationType != nil {
		stationType = *user.StationType
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, stationType)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, stationType)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func (s *authService) logActivity(ctx context.Context, userID, action, details, ip string) {
	log := &model.ActivityLog{
		UserID:  &userID,
		Action:  action,
		Details: details,
	}
	if ip != "" {
		log.IPAddress = &ip
	}
	if err := s.repo.ActivityLog.Create(ctx, log); err != nil {
		s.logger.Warn("write activity log failed", zap.Error(err))
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		StationType:  user.StationType,
		StationName:  user.StationName,
		ProfileImage: user.ProfileImage,
	}
}
