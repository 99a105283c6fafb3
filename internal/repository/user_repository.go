package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"useradmin/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteBatch(ctx context.Context, ids []uint) ([]uint, error)
	SetStatus(ctx context.Context, id uint, status string) (*model.User, error)
	SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, most recently logged-in first.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("last_login DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// Delete removes the user row and reports how many rows matched.
func (r *userRepository) Delete(ctx context.Context, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&model.User{}, id)
	return tx.RowsAffected, tx.Error
}

// DeleteBatch removes every user whose id is in ids and returns the ids that
// actually matched a row. Unmatched ids are ignored.
func (r *userRepository) DeleteBatch(ctx context.Context, ids []uint) ([]uint, error) {
	var matched []uint
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN ?", ids).
		Pluck("id", &matched).Error; err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Delete(&model.User{}, matched).Error; err != nil {
		return nil, err
	}
	return matched, nil
}

// SetStatus updates the status of a single user and returns the updated row.
// Returns gorm.ErrRecordNotFound if the id matches no user.
func (r *userRepository) SetStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("status", status).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatusBatch updates the status of every matching user and returns the
// updated rows. Unmatched ids are ignored.
func (r *userRepository) SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	matched := make([]uint, 0, len(users))
	for i := range users {
		matched = append(matched, users[i].ID)
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN ?", matched).
		Update("status", status).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Status = status
	}
	return users, nil
}
