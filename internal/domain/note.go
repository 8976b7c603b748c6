package domain

import "time"

// Note is a user-owned note. Owner is set at creation and never changes;
// edits touch only Title, Body, Tags and UpdatedAt.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// OwnerUsername is filled on single-note reads joined with the owner.
	OwnerUsername string `json:"username,omitempty"`
}

// NewNote creates a note with a generated id and matching timestamps.
func NewNote(title, body string, tags []string, owner string) *Note {
	now := time.Now().UTC()
	return &Note{
		ID:        newID("note"),
		Title:     title,
		Body:      body,
		Tags:      tags,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
