package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mikieee25/BFPAttendance/internal/dto"
	"github.com/mikieee25/BFPAttendance/internal/model"
	"github.com/mikieee25/BFPAttendance/internal/repository"
)

var (
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrStationTaken        = errors.New("station already has an account")
	ErrStationTypeRequired = errors.New("station accounts require a station type")
	ErrStationTypeInvalid  = errors.New("unknown station type")
	ErrSelfDelete          = errors.New("cannot delete your own account")
)

// UserService is the account management interface.
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, int64, error)
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
	Create(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, ip string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, ip string) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor *Actor, id string, ip string) error
	ListStations(ctx context.Context) ([]dto.UserResponse, error)
	ListActivity(ctx context.Context, filter repository.ActivityLogFilter) ([]model.ActivityLog, int64, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates the UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:    req.Role,
		Keyword: req.Keyword,
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	today := time.Now()
	out := make([]dto.UserListItem, len(users))
	for i := range users {
		out[i] = dto.UserListItem{UserResponse: toUserResponse(&users[i])}
		if users[i].Role != model.RoleStation {
			continue
		}

		stationID := users[i].UserID
		count, err := s.repo.Personnel.CountActive(ctx, stationID)
		if err != nil {
			return nil, 0, err
		}
		out[i].PersonnelCount = count

		counts, err := s.repo.Attendance.CountByStatus(ctx, stationID, today, today)
		if err != nil {
			return nil, 0, err
		}
		// Late arrivals still showed up, so they count as present.
		out[i].PresentToday = counts.Present + counts.Late
	}
	return out, total, nil
}

func (s *userService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, ip string) (*dto.UserResponse, error) {
	if req.Role == model.RoleStation {
		if req.StationType == "" {
			return nil, ErrStationTypeRequired
		}
		if !model.IsValidStationType(req.StationType) {
			return nil, ErrStationTypeInvalid
		}
		if _, err := s.repo.User.GetByStationType(ctx, req.StationType); err == nil {
			return nil, ErrStationTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if req.Role == model.RoleStation {
		user.StationType = &req.StationType
		if req.StationName != "" {
			user.StationName = &req.StationName
		}
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionCreateUser, "Created account "+user.Username, ip)

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, ip string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
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

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.Error(err))
		return nil, err
	}

	s.logActivity(ctx, actor, model.ActionUpdateUser, "Updated account "+user.Username, ip)

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, actor *Actor, id string, ip string) error {
	if actor.UserID == id {
		return ErrSelfDelete
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.Error(err))
		return err
	}

	s.logActivity(ctx, actor, model.ActionDeleteUser, "Deleted account "+user.Username, ip)
	return nil
}

func (s *userService) ListStations(ctx context.Context) ([]dto.UserResponse, error) {
	stations, err := s.repo.User.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, len(stations))
	for i := range stations {
		out[i] = toUserResponse(&stations[i])
	}
	return out, nil
}

func (s *userService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) ([]model.ActivityLog, int64, error) {
	return s.repo.ActivityLog.List(ctx, filter)
}

func (s *userService) logActivity(ctx context.Context, actor *Actor, action, details, ip string) {
	log := &model.ActivityLog{
		UserID:  &actor.UserID,
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
