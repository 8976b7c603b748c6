package domain

import (
	"context"
	"time"
)

// NoteRepository persists notes.
type NoteRepository interface {
	// Create inserts the note. ErrInvariant when the store reports no
	// inserted row.
	Create(ctx context.Context, note *Note) error

	// GetByID returns the note joined with its owner's username.
	// ErrNoteNotFound when absent.
	GetByID(ctx context.Context, id string) (*Note, error)

	// GetOwner returns the owner of the note. ErrNoteNotFound when absent.
	GetOwner(ctx context.Context, id string) (string, error)

	// Update rewrites title, body, tags and updatedAt, returning the owner
	// of the affected row. ErrNoteNotFound when zero rows are updated.
	Update(ctx context.Context, id, title, body string, tags []string, updatedAt time.Time) (owner string, err error)

	// Delete removes the note, returning the owner of the affected row.
	// ErrNoteNotFound when zero rows are deleted.
	Delete(ctx context.Context, id string) (owner string, err error)

	// ListVisible returns up to limit notes the user owns or collaborates
	// on, deduplicated by note id.
	ListVisible(ctx context.Context, userID string, limit int) ([]*Note, error)
}

// UserRepository persists users.
type UserRepository interface {
	// Create inserts the user. ErrInvariant when the store reports no
	// inserted row.
	Create(ctx context.Context, user *User) error

	// GetByID returns the user. ErrUserNotFound when absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername returns the user with the exact username.
	// ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// SearchByUsername returns users whose username contains the partial
	// string, case-insensitively. An empty result is not an error.
	SearchByUsername(ctx context.Context, partial string) ([]*User, error)

	// ExistsByUsername reports whether the exact username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// CollaborationRepository persists sharing grants.
type CollaborationRepository interface {
	// Create inserts the grant. ErrInvariant when the store reports no
	// inserted row.
	Create(ctx context.Context, collab *Collaboration) error

	// Delete removes the grant for (noteID, userID). ErrInvariant when zero
	// rows are deleted.
	Delete(ctx context.Context, noteID, userID string) error

	// Exists reports whether a grant for (noteID, userID) exists.
	Exists(ctx context.Context, noteID, userID string) (bool, error)

	// ListUserIDsByNote returns the user ids of all collaborators on the note.
	ListUserIDsByNote(ctx context.Context, noteID string) ([]string, error)

	// DeleteByNote removes every grant on the note. Zero rows is not an
	// error here: notes without collaborators are the common case.
	DeleteByNote(ctx context.Context, noteID string) error
}

// TokenRepository persists issued refresh tokens.
type TokenRepository interface {
	Save(ctx context.Context, token string) error

	// Verify checks the token was issued and not revoked.
	// ErrInvalidRefreshToken when absent.
	Verify(ctx context.Context, token string) error

	// Delete revokes the token. ErrInvalidRefreshToken when absent.
	Delete(ctx context.Context, token string) error
}

// NoteListCache caches per-user visible note lists keyed by user id.
type NoteListCache interface {
	// Get returns the cached list. ErrCacheMiss when the key is absent.
	Get(ctx context.Context, userID string) ([]*Note, error)

	// Set stores the list under the user's key.
	Set(ctx context.Context, userID string, notes []*Note) error

	// Delete invalidates the user's entry so the next read recomputes from
	// the store.
	Delete(ctx context.Context, userID string) error
}
