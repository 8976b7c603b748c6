package data

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"notehub/internal/domain"
)

// CollaborationDO is the sharing grant data object.
type CollaborationDO struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	NoteID    string `gorm:"uniqueIndex:idx_collab_note_user;type:varchar(64);not null"`
	UserID    string `gorm:"uniqueIndex:idx_collab_note_user;index;type:varchar(64);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for CollaborationDO.
func (CollaborationDO) TableName() string {
	return "collaborations"
}

// CollaborationRepository is the gorm-backed grant repository.
type CollaborationRepository struct {
	db *gorm.DB
}

// NewCollaborationRepository creates a collaboration repository.
func NewCollaborationRepository(db *gorm.DB) domain.CollaborationRepository {
	return &CollaborationRepository{db: db}
}

// Create implements domain.CollaborationRepository.
func (r *CollaborationRepository) Create(ctx context.Context, collab *domain.Collaboration) error {
	do := &CollaborationDO{
		ID:        collab.ID,
		NoteID:    collab.NoteID,
		UserID:    collab.UserID,
		CreatedAt: collab.CreatedAt,
	}

	res := r.db.WithContext(ctx).Create(do)
	if res.Error != nil {
		return fmt.Errorf("failed to add collaboration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: failed to add collaboration", domain.ErrInvariant)
	}
	return nil
}

// Delete implements domain.CollaborationRepository.
func (r *CollaborationRepository) Delete(ctx context.Context, noteID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Delete(&CollaborationDO{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: failed to delete collaboration", domain.ErrInvariant)
	}
	return nil
}

// Exists implements domain.CollaborationRepository.
func (r *CollaborationRepository) Exists(ctx context.Context, noteID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&CollaborationDO{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUserIDsByNote implements domain.CollaborationRepository.
func (r *CollaborationRepository) ListUserIDsByNote(ctx context.Context, noteID string) ([]string, error) {
	var userIDs []string
	if err := r.db.WithContext(ctx).
		Model(&CollaborationDO{}).
		Where("note_id = ?", noteID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// DeleteByNote implements domain.CollaborationRepository.
func (r *CollaborationRepository) DeleteByNote(ctx context.Context, noteID string) error {
	return r.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&CollaborationDO{}).Error
}
