package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"notehub/internal/domain"
)

// CollaborationUsecase manages sharing grants between note owners and
// collaborators.
type CollaborationUsecase struct {
	collabs domain.CollaborationRepository
	cache   domain.NoteListCache
	events  EventPublisher
	log     *log.Helper
}

// NewCollaborationUsecase creates a collaboration usecase.
func NewCollaborationUsecase(
	collabs domain.CollaborationRepository,
	cache domain.NoteListCache,
	events EventPublisher,
	logger log.Logger,
) *CollaborationUsecase {
	return &CollaborationUsecase{
		collabs: collabs,
		cache:   cache,
		events:  events,
		log:     log.NewHelper(log.With(logger, "module", "collaborations")),
	}
}

// AddCollaboration grants userID access to noteID and returns the grant id.
// The collaborator's cached list is invalidated: their visible set just grew.
func (uc *CollaborationUsecase) AddCollaboration(ctx context.Context, noteID, userID string) (string, error) {
	exists, err := uc.collabs.Exists(ctx, noteID, userID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: collaboration already exists", domain.ErrInvariant)
	}

	collab := domain.NewCollaboration(noteID, userID)
	if err := uc.collabs.Create(ctx, collab); err != nil {
		return "", err
	}

	uc.invalidate(ctx, userID)
	uc.publish(ctx, EventCollaboratorAdded, noteID, userID)

	uc.log.WithContext(ctx).Infof("collaboration added: note=%s user=%s", noteID, userID)
	return collab.ID, nil
}

// DeleteCollaboration revokes userID's access to noteID and invalidates the
// collaborator's cached list.
func (uc *CollaborationUsecase) DeleteCollaboration(ctx context.Context, noteID, userID string) error {
	if err := uc.collabs.Delete(ctx, noteID, userID); err != nil {
		return err
	}

	uc.invalidate(ctx, userID)
	uc.publish(ctx, EventCollaboratorRemove, noteID, userID)

	uc.log.WithContext(ctx).Infof("collaboration removed: note=%s user=%s", noteID, userID)
	return nil
}

// VerifyCollaborator succeeds silently when a grant for (noteID, userID)
// exists. A missing grant reports the invariant kind, matching the add and
// delete paths of this service.
func (uc *CollaborationUsecase) VerifyCollaborator(ctx context.Context, noteID, userID string) error {
	exists, err := uc.collabs.Exists(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: failed to verify collaboration", domain.ErrInvariant)
	}
	return nil
}

func (uc *CollaborationUsecase) invalidate(ctx context.Context, userID string) {
	if err := uc.cache.Delete(ctx, userID); err != nil {
		uc.log.WithContext(ctx).Errorf("note list invalidation failed for %s: %v", userID, err)
	}
}

func (uc *CollaborationUsecase) publish(ctx context.Context, eventType EventType, noteID, userID string) {
	if err := uc.events.Publish(ctx, NewNoteEvent(eventType, noteID, userID)); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to publish %s for %s: %v", eventType, noteID, err)
	}
}
