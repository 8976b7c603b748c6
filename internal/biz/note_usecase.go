package biz

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"notehub/internal/domain"
)

// visibleNotesLimit caps the listing query and the cached payload.
const visibleNotesLimit = 10

// CollaboratorVerifier checks whether a user holds a sharing grant on a note.
type CollaboratorVerifier interface {
	VerifyCollaborator(ctx context.Context, noteID, userID string) error
}

// NoteUsecase is the single source of truth for note lifecycle and access
// control, with a read-through cache for listing.
type NoteUsecase struct {
	notes    domain.NoteRepository
	collabs  domain.CollaborationRepository
	verifier CollaboratorVerifier
	cache    domain.NoteListCache
	events   EventPublisher
	log      *log.Helper
}

// NewNoteUsecase creates a note usecase.
func NewNoteUsecase(
	notes domain.NoteRepository,
	collabs domain.CollaborationRepository,
	verifier CollaboratorVerifier,
	cache domain.NoteListCache,
	events EventPublisher,
	logger log.Logger,
) *NoteUsecase {
	return &NoteUsecase{
		notes:    notes,
		collabs:  collabs,
		verifier: verifier,
		cache:    cache,
		events:   events,
		log:      log.NewHelper(log.With(logger, "module", "notes")),
	}
}

// AddNote creates a note owned by owner and returns its id.
func (uc *NoteUsecase) AddNote(ctx context.Context, title, body string, tags []string, owner string) (string, error) {
	note := domain.NewNote(title, body, tags, owner)

	if err := uc.notes.Create(ctx, note); err != nil {
		return "", err
	}

	uc.invalidate(ctx, owner)
	uc.publish(ctx, EventNoteCreated, note.ID, owner)

	uc.log.WithContext(ctx).Infof("note created: %s owner=%s", note.ID, owner)
	return note.ID, nil
}

// GetNotes returns the notes visible to the user: their own plus the ones
// shared with them. Reads are cache-aside: a hit skips the store entirely, a
// miss falls through and refills the cache.
func (uc *NoteUsecase) GetNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	cached, err := uc.cache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// Cache transport trouble is never surfaced; the store stays the
		// source of truth.
		uc.log.WithContext(ctx).Warnf("note list cache read failed for %s: %v", userID, err)
	}

	notes, err := uc.notes.ListVisible(ctx, userID, visibleNotesLimit)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, userID, notes); err != nil {
		uc.log.WithContext(ctx).Warnf("note list cache fill failed for %s: %v", userID, err)
	}

	return notes, nil
}

// GetNoteByID returns the note joined with its owner's username.
func (uc *NoteUsecase) GetNoteByID(ctx context.Context, id string) (*domain.Note, error) {
	return uc.notes.GetByID(ctx, id)
}

// EditNoteByID updates title, body and tags, refreshing updatedAt. The cache
// entries invalidated are derived from the updated row's owner and the note's
// collaborators, not from the caller: an edit by a collaborator must still
// invalidate every list the note appears in.
func (uc *NoteUsecase) EditNoteByID(ctx context.Context, id, title, body string, tags []string) error {
	collaborators, err := uc.collabs.ListUserIDsByNote(ctx, id)
	if err != nil {
		return err
	}

	owner, err := uc.notes.Update(ctx, id, title, body, tags, time.Now().UTC())
	if err != nil {
		return err
	}

	uc.invalidate(ctx, append([]string{owner}, collaborators...)...)
	uc.publish(ctx, EventNoteUpdated, id, owner)
	return nil
}

// DeleteNoteByID removes the note, cascades its sharing grants and
// invalidates the owner's and every collaborator's cached list.
func (uc *NoteUsecase) DeleteNoteByID(ctx context.Context, id string) error {
	collaborators, err := uc.collabs.ListUserIDsByNote(ctx, id)
	if err != nil {
		return err
	}

	owner, err := uc.notes.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.collabs.DeleteByNote(ctx, id); err != nil {
		uc.log.WithContext(ctx).Errorf("failed to cascade collaborations for %s: %v", id, err)
	}

	uc.invalidate(ctx, append([]string{owner}, collaborators...)...)
	uc.publish(ctx, EventNoteDeleted, id, owner)

	uc.log.WithContext(ctx).Infof("note deleted: %s owner=%s", id, owner)
	return nil
}

// VerifyNoteOwner fails with ErrNoteNotFound when the note does not exist and
// with ErrForbidden when it exists but is owned by someone else.
func (uc *NoteUsecase) VerifyNoteOwner(ctx context.Context, id, userID string) error {
	owner, err := uc.notes.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return domain.ErrForbidden
	}
	return nil
}

// VerifyNoteAccess allows owners and collaborators through. A missing note
// propagates as ErrNoteNotFound untouched. When the ownership check fails for
// any other reason and the collaboration check fails too, the original
// ownership error is returned: the caller sees "not authorized", never a
// secondary failure detail.
func (uc *NoteUsecase) VerifyNoteAccess(ctx context.Context, noteID, userID string) error {
	err := uc.VerifyNoteOwner(ctx, noteID, userID)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoteNotFound) {
		return err
	}

	if collabErr := uc.verifier.VerifyCollaborator(ctx, noteID, userID); collabErr != nil {
		return err
	}
	return nil
}

// invalidate drops the cached note list of each user. Invalidation is awaited
// but never fails the request: the mutation already committed, and the TTL
// bounds any entry a failed delete leaves behind.
func (uc *NoteUsecase) invalidate(ctx context.Context, userIDs ...string) {
	for _, userID := range userIDs {
		if err := uc.cache.Delete(ctx, userID); err != nil {
			uc.log.WithContext(ctx).Errorf("note list invalidation failed for %s: %v", userID, err)
		}
	}
}

func (uc *NoteUsecase) publish(ctx context.Context, eventType EventType, noteID, userID string) {
	if err := uc.events.Publish(ctx, NewNoteEvent(eventType, noteID, userID)); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to publish %s for %s: %v", eventType, noteID, err)
	}
}
