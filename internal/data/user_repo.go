package data

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"notehub/internal/domain"
)

// UserDO is the user data object.
type UserDO struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	Username     string `gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string `gorm:"column:password;type:varchar(255);not null"`
	Fullname     string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for UserDO.
func (UserDO) TableName() string {
	return "users"
}

// UserRepository is the gorm-backed user repository.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepository{db: db}
}

// Create implements domain.UserRepository.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Create(fromUserEntity(user))
	if res.Error != nil {
		return fmt.Errorf("failed to add user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: failed to add user", domain.ErrInvariant)
	}
	return nil
}

// GetByID implements domain.UserRepository.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var do UserDO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&do).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toUserEntity(&do), nil
}

// GetByUsername implements domain.UserRepository.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var do UserDO
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&do).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toUserEntity(&do), nil
}

// SearchByUsername implements domain.UserRepository.
func (r *UserRepository) SearchByUsername(ctx context.Context, partial string) ([]*domain.User, error) {
	var dos []UserDO
	if err := r.db.WithContext(ctx).
		Where("username ILIKE ?", "%"+partial+"%").
		Find(&dos).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(dos))
	for i := range dos {
		users = append(users, toUserEntity(&dos[i]))
	}
	return users, nil
}

// ExistsByUsername implements domain.UserRepository.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&UserDO{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func fromUserEntity(user *domain.User) *UserDO {
	return &UserDO{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Fullname:     user.Fullname,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toUserEntity(do *UserDO) *domain.User {
	return &domain.User{
		ID:           do.ID,
		Username:     do.Username,
		PasswordHash: do.PasswordHash,
		Fullname:     do.Fullname,
		CreatedAt:    do.CreatedAt,
		UpdatedAt:    do.UpdatedAt,
	}
}
