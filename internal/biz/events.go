package biz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a note lifecycle event.
type EventType string

const (
	EventNoteCreated        EventType = "note.created"
	EventNoteUpdated        EventType = "note.updated"
	EventNoteDeleted        EventType = "note.deleted"
	EventCollaboratorAdded  EventType = "note.collaborator_added"
	EventCollaboratorRemove EventType = "note.collaborator_removed"
)

// NoteEvent describes a change to a note or its sharing grants. Publishing is
// best-effort; failures never fail the originating request.
type NoteEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	NoteID     string    `json:"note_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewNoteEvent creates an event with a generated id and current timestamp.
func NewNoteEvent(eventType EventType, noteID, userID string) *NoteEvent {
	return &NoteEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		NoteID:     noteID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher publishes note events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *NoteEvent) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, *NoteEvent) error { return nil }
