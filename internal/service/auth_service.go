package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"useradmin/internal/auth"
	"useradmin/internal/cache"
	"useradmin/internal/model"
	"useradmin/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email and wrong password share it so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already exists")
	// ErrAccountBlocked is returned when a blocked account attempts to log in.
	ErrAccountBlocked = errors.New("account is blocked")
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, name, surname, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	cache      *cache.Client
	log        *zap.SugaredLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, cache *cache.Client, log *zap.SugaredLogger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      cache,
		log:        log,
	}
}

// Register creates a new active account with a hashed password and issues a
// bearer token for it.
func (s *authService) Register(ctx context.Context, name, surname, email, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Errorw("register: email lookup failed", "error", err)
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: string(hashed),
		Status:       model.StatusActive,
		LastLogin:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the authoritative check: the pre-check above
		// can miss a concurrent registration with the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		s.log.Errorw("register: insert failed", "error", err)
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.cache.Delete(ctx, usersListKey)
	return user, token, nil
}

// Login verifies credentials for an active account, records the login time
// and returns a fresh bearer token. The blocked-account check runs before the
// password comparison, so a blocked account gets ErrAccountBlocked regardless
// of the supplied password.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		s.log.Errorw("login: email lookup failed", "error", err)
		return "", fmt.Errorf("find user: %w", err)
	}

	if user.Blocked() {
		return "", ErrAccountBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.Errorw("login: last_login update failed", "error", err, "user_id", user.ID)
		return "", fmt.Errorf("update last login: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.cache.Delete(ctx, usersListKey)
	return token, nil
}
