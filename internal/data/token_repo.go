package data

import (
	"context"
	"time"

	"gorm.io/gorm"

	"notehub/internal/domain"
)

// RefreshTokenDO is the issued refresh token data object.
type RefreshTokenDO struct {
	Token     string `gorm:"primaryKey;type:text"`
	CreatedAt time.Time
}

// TableName returns the table name for RefreshTokenDO.
func (RefreshTokenDO) TableName() string {
	return "refresh_tokens"
}

// TokenRepository is the gorm-backed refresh token repository.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a refresh token repository.
func NewTokenRepository(db *gorm.DB) domain.TokenRepository {
	return &TokenRepository{db: db}
}

// Save implements domain.TokenRepository.
func (r *TokenRepository) Save(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Create(&RefreshTokenDO{
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}).Error
}

// Verify implements domain.TokenRepository.
func (r *TokenRepository) Verify(ctx context.Context, token string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&RefreshTokenDO{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrInvalidRefreshToken
	}
	return nil
}

// Delete implements domain.TokenRepository.
func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&RefreshTokenDO{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidRefreshToken
	}
	return nil
}
