package biz

import (
	"context"
	"io"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notehub/internal/domain"
)

func newCollabFixture() (*CollaborationUsecase, *fakeStore, *fakeCache) {
	store := newFakeStore()
	cache := newFakeCache()
	uc := NewCollaborationUsecase(&fakeCollabRepo{store: store}, cache, NopPublisher{}, log.NewStdLogger(io.Discard))
	return uc, store, cache
}

func TestAddCollaboration(t *testing.T) {
	uc, store, cache := newCollabFixture()
	ctx := context.Background()

	collabID, err := uc.AddCollaboration(ctx, "note-1", "user-b")
	require.NoError(t, err)
	assert.NotEmpty(t, collabID)

	_, ok := store.collabs[collabKey("note-1", "user-b")]
	assert.True(t, ok)

	// The collaborator's visible list grew, so their cache entry goes.
	assert.Equal(t, []string{"user-b"}, cache.deletes)
}

func TestAddCollaborationDuplicate(t *testing.T) {
	uc, store, _ := newCollabFixture()
	ctx := context.Background()

	_, err := uc.AddCollaboration(ctx, "note-1", "user-b")
	require.NoError(t, err)

	_, err = uc.AddCollaboration(ctx, "note-1", "user-b")
	assert.ErrorIs(t, err, domain.ErrInvariant)
	assert.Len(t, store.collabs, 1)
}

func TestDeleteCollaboration(t *testing.T) {
	uc, store, cache := newCollabFixture()
	ctx := context.Background()

	_, err := uc.AddCollaboration(ctx, "note-1", "user-b")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCollaboration(ctx, "note-1", "user-b"))
	assert.Empty(t, store.collabs)
	assert.Equal(t, []string{"user-b", "user-b"}, cache.deletes)
}

func TestDeleteCollaborationMissing(t *testing.T) {
	uc, _, _ := newCollabFixture()

	err := uc.DeleteCollaboration(context.Background(), "note-1", "user-b")
	assert.ErrorIs(t, err, domain.ErrInvariant)
}

func TestVerifyCollaborator(t *testing.T) {
	uc, _, _ := newCollabFixture()
	ctx := context.Background()

	_, err := uc.AddCollaboration(ctx, "note-1", "user-b")
	require.NoError(t, err)

	assert.NoError(t, uc.VerifyCollaborator(ctx, "note-1", "user-b"))

	// A missing grant reports the invariant kind, same as failed writes.
	err = uc.VerifyCollaborator(ctx, "note-1", "user-c")
	assert.ErrorIs(t, err, domain.ErrInvariant)
}
