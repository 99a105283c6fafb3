package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"useradmin/internal/cache"
	errs "useradmin/internal/errors"
	"useradmin/internal/model"
	"useradmin/internal/repository"
)

const (
	usersListKey = "users:list"
	usersListTTL = 1 * time.Minute
)

// UserService exposes the administrative account operations. Batch operations
// are best-effort: unmatched ids are silently skipped, and only a fully
// unmatched set is an error.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
	DeleteBatch(ctx context.Context, ids []uint) ([]uint, error)
	SetStatus(ctx context.Context, id uint, status string) (*model.User, error)
	SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	log   *zap.SugaredLogger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, log *zap.SugaredLogger) UserService {
	return &userService{repo: repo, cache: cache, log: log}
}

// List returns all users ordered by last login, newest first. The result is
// cached briefly; every mutation invalidates the cache.
func (s *userService) List(ctx context.Context) ([]model.User, error) {
	if data := s.cache.Get(ctx, usersListKey); data != nil {
		var cached []model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Errorw("list users failed", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	if payload, err := json.Marshal(users); err == nil {
		s.cache.Set(ctx, usersListKey, payload, usersListTTL)
	}
	return users, nil
}

// Delete removes a single user. Returns errs.ErrUserNotFound if the id
// matches no row.
func (s *userService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Errorw("delete user failed", "error", err, "user_id", id)
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return errs.ErrUserNotFound
	}
	s.cache.Delete(ctx, usersListKey)
	return nil
}

// DeleteBatch removes the matching users and returns the deleted ids.
func (s *userService) DeleteBatch(ctx context.Context, ids []uint) ([]uint, error) {
	deleted, err := s.repo.DeleteBatch(ctx, ids)
	if err != nil {
		s.log.Errorw("batch delete failed", "error", err)
		return nil, fmt.Errorf("delete users: %w", err)
	}
	if len(deleted) == 0 {
		return nil, errs.ErrNoUsersMatched
	}
	s.cache.Delete(ctx, usersListKey)
	return deleted, nil
}

// SetStatus blocks or unblocks a single user and returns the updated row.
func (s *userService) SetStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	user, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		s.log.Errorw("status update failed", "error", err, "user_id", id, "status", status)
		return nil, fmt.Errorf("set status: %w", err)
	}
	s.cache.Delete(ctx, usersListKey)
	return user, nil
}

// SetStatusBatch blocks or unblocks the matching users and returns the
// updated rows.
func (s *userService) SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error) {
	users, err := s.repo.SetStatusBatch(ctx, ids, status)
	if err != nil {
		s.log.Errorw("batch status update failed", "error", err, "status", status)
		return nil, fmt.Errorf("set status: %w", err)
	}
	if len(users) == 0 {
		return nil, errs.ErrNoUsersMatched
	}
	s.cache.Delete(ctx, usersListKey)
	return users, nil
}
