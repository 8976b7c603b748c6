package domain

import "time"

// Collaboration grants a user access to a note they do not own.
type Collaboration struct {
	ID        string
	NoteID    string
	UserID    string
	CreatedAt time.Time
}

// NewCollaboration creates a grant with a generated id.
func NewCollaboration(noteID, userID string) *Collaboration {
	return &Collaboration{
		ID:        newID("collab"),
		NoteID:    noteID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}
