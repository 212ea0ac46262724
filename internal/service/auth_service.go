package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/util"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	users  *repository.UserRepository
	audit  *repository.AuditRepository
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthService(users *repository.UserRepository, audit *repository.AuditRepository, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, audit: audit, cfg: cfg, logger: logger}
}

// AuthResult carries the issued token and the public user view.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(email, password, displayName string) (*AuthResult, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: displayName,
		Language:    "en",
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if err := s.audit.Append(user.ID, model.AuditSignup, email); err != nil {
		s.logger.Warn("audit append failed", zap.Error(err))
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token. Disabled accounts and bad
// credentials both return ErrInvalidCredentials; which one failed is not
// disclosed to the caller.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.users.Update(user); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	if err := s.audit.Append(user.ID, model.AuditLogin, email); err != nil {
		s.logger.Warn("audit append failed", zap.Error(err))
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Profile returns the user's health profile, creating an empty one on
// first access.
func (s *AuthService) Profile(userID uint) (*model.UserProfile, error) {
	return s.users.GetOrCreateProfile(userID)
}

// UpdateProfile replaces the editable profile fields.
func (s *AuthService) UpdateProfile(userID uint, update *model.UserProfile) (*model.UserProfile, error) {
	profile, err := s.users.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	profile.Age = update.Age
	profile.Gender = update.Gender
	profile.MedicalHistory = update.MedicalHistory
	profile.Allergies = update.Allergies
	profile.Medications = update.Medications

	if err := s.users.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
