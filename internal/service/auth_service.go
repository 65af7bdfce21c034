package service

import (
	"errors"
	"time"

	"github.com/alexandre-rezende616/spacelearn/internal/config"
	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	ProfileRepo *repository.ProfileRepository
	Config      *config.Config
}

func NewAuthService(profileRepo *repository.ProfileRepository, cfg *config.Config) *AuthService {
	return &AuthService{ProfileRepo: profileRepo, Config: cfg}
}

type RegisterRequest struct {
	Name     string            `json:"name" binding:"required"`
	Email    string            `json:"email" binding:"required,email"`
	Password string            `json:"password" binding:"required,min=6"`
	Role     model.ProfileRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a profile with a bcrypt-hashed password. Unknown or
// empty roles default to student; coordinator accounts are provisioned out
// of band, never self-registered.
func (s *AuthService) Register(req RegisterRequest) (*model.Profile, error) {
	if _, err := s.ProfileRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := req.Role
	if role != model.RoleStudent && role != model.RoleTeacher {
		role = model.RoleStudent
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.ProfileRepo.Create(profile); err != nil {
		return nil, err
	}
	logger.Log.Info("profile registered", zap.String("email", profile.Email), zap.String("role", string(profile.Role)))
	return profile, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(req LoginRequest) (string, *model.Profile, error) {
	profile, err := s.ProfileRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(profile, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	profile.LastLogin = &now
	if err := s.ProfileRepo.Update(profile); err != nil {
		logger.Log.Warn("last login update failed", zap.Error(err))
	}
	return token, profile, nil
}
