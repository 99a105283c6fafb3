package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"useradmin/internal/auth"
	"useradmin/internal/cache"
	"useradmin/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeleteBatch(ctx context.Context, ids []uint) ([]uint, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error) {
	args := m.Called(ctx, ids, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func newTestAuthService(repo *MockUserRepository) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, jwtService, (*cache.Client)(nil), zap.NewNop().Sugar()), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "test@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already exists",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:  "duplicate key on insert wins the race",
			email: "racer@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, jwtService := newTestAuthService(mockRepo)
			user, token, err := svc.Register(context.Background(), "Test", "User", tt.email, "password123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.StatusActive, user.Status)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "password123", user.PasswordHash)
				assert.False(t, user.LastLogin.IsZero())

				claims, verr := jwtService.Verify(token)
				assert.NoError(t, verr)
				assert.Equal(t, tt.email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           7,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
					Status:       model.StatusActive,
				}, nil)
				m.On("TouchLastLogin", mock.Anything, uint(7), mock.AnythingOfType("time.Time")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           7,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
					Status:       model.StatusActive,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "blocked account with correct password",
			email:    "blocked@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "blocked@example.com").Return(&model.User{
					ID:           8,
					Email:        "blocked@example.com",
					PasswordHash: string(hashed),
					Status:       model.StatusBlocked,
				}, nil)
			},
			expectedError: ErrAccountBlocked,
		},
		{
			name:     "blocked account with wrong password",
			email:    "blocked@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "blocked@example.com").Return(&model.User{
					ID:           8,
					Email:        "blocked@example.com",
					PasswordHash: string(hashed),
					Status:       model.StatusBlocked,
				}, nil)
			},
			expectedError: ErrAccountBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, jwtService := newTestAuthService(mockRepo)
			token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)

				claims, verr := jwtService.Verify(token)
				assert.NoError(t, verr)
				assert.Equal(t, uint(7), claims.UserID)
				assert.Equal(t, tt.email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
