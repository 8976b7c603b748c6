package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"notehub/internal/domain"
)

// NoteDO is the note data object.
type NoteDO struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	Title     string `gorm:"type:text;not null"`
	Body      string `gorm:"type:text"`
	TagsJSON  string `gorm:"column:tags;type:jsonb"`
	Owner     string `gorm:"index;type:varchar(64);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for NoteDO.
func (NoteDO) TableName() string {
	return "notes"
}

// noteRow is the scan target for raw note queries.
type noteRow struct {
	ID        string
	Title     string
	Body      string
	Tags      string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
}

// NoteRepository is the gorm-backed note repository.
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a note repository.
func NewNoteRepository(db *gorm.DB) domain.NoteRepository {
	return &NoteRepository{db: db}
}

// Create implements domain.NoteRepository.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	do, err := fromNoteEntity(note)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Create(do)
	if res.Error != nil {
		return fmt.Errorf("failed to add note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: failed to add note", domain.ErrInvariant)
	}
	return nil
}

// GetByID implements domain.NoteRepository.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	var row noteRow
	res := r.db.WithContext(ctx).Raw(`
		SELECT n.id, n.title, n.body, n.tags, n.owner, n.created_at, n.updated_at, u.username
		FROM notes n
		LEFT JOIN users u ON u.id = n.owner
		WHERE n.id = ?`, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNoteNotFound
	}

	return toNoteEntity(&row)
}

// GetOwner implements domain.NoteRepository.
func (r *NoteRepository) GetOwner(ctx context.Context, id string) (string, error) {
	var do NoteDO
	if err := r.db.WithContext(ctx).Select("id", "owner").Where("id = ?", id).First(&do).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", domain.ErrNoteNotFound
		}
		return "", err
	}
	return do.Owner, nil
}

// Update implements domain.NoteRepository. The owner comes from the updated
// row itself, not the caller: a collaborator's edit must invalidate the
// owner's cached list.
func (r *NoteRepository) Update(ctx context.Context, id, title, body string, tags []string, updatedAt time.Time) (string, error) {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}

	var row struct {
		ID    string
		Owner string
	}
	res := r.db.WithContext(ctx).Raw(`
		UPDATE notes SET title = ?, body = ?, tags = ?, updated_at = ?
		WHERE id = ?
		RETURNING id, owner`, title, body, string(tagsJSON), updatedAt, id).Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", domain.ErrNoteNotFound
	}
	return row.Owner, nil
}

// Delete implements domain.NoteRepository.
func (r *NoteRepository) Delete(ctx context.Context, id string) (string, error) {
	var row struct {
		ID    string
		Owner string
	}
	res := r.db.WithContext(ctx).Raw(`
		DELETE FROM notes WHERE id = ? RETURNING id, owner`, id).Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", domain.ErrNoteNotFound
	}
	return row.Owner, nil
}

// ListVisible implements domain.NoteRepository. The result is the union of
// notes the user owns and notes shared with them, deduplicated by note id.
func (r *NoteRepository) ListVisible(ctx context.Context, userID string, limit int) ([]*domain.Note, error) {
	var rows []noteRow
	res := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT n.id, n.title, n.body, n.tags, n.owner, n.created_at, n.updated_at
		FROM notes n
		LEFT JOIN collaborations c ON c.note_id = n.id
		WHERE n.owner = ? OR c.user_id = ?
		ORDER BY n.created_at
		LIMIT ?`, userID, userID, limit).Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	notes := make([]*domain.Note, 0, len(rows))
	for i := range rows {
		note, err := toNoteEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		note.OwnerUsername = ""
		notes = append(notes, note)
	}
	return notes, nil
}

func fromNoteEntity(note *domain.Note) (*NoteDO, error) {
	tagsJSON, err := json.Marshal(note.Tags)
	if err != nil {
		return nil, err
	}

	return &NoteDO{
		ID:        note.ID,
		Title:     note.Title,
		Body:      note.Body,
		TagsJSON:  string(tagsJSON),
		Owner:     note.Owner,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}, nil
}

func toNoteEntity(row *noteRow) (*domain.Note, error) {
	var tags []string
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal note tags: %w", err)
		}
	}

	return &domain.Note{
		ID:            row.ID,
		Title:         row.Title,
		Body:          row.Body,
		Tags:          tags,
		Owner:         row.Owner,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		OwnerUsername: row.Username,
	}, nil
}
