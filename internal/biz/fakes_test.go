package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notehub/internal/domain"
)

// fakeStore backs the in-memory repository fakes. Notes keep insertion order
// so listing is deterministic.
type fakeStore struct {
	notes     map[string]*domain.Note
	noteOrder []string
	collabs   map[string]*domain.Collaboration
	users     map[string]*domain.User
	tokens    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notes:   make(map[string]*domain.Note),
		collabs: make(map[string]*domain.Collaboration),
		users:   make(map[string]*domain.User),
		tokens:  make(map[string]bool),
	}
}

func collabKey(noteID, userID string) string {
	return noteID + "/" + userID
}

// ---- note repository ----

type fakeNoteRepo struct {
	store *fakeStore
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.Note) error {
	copied := *note
	r.store.notes[note.ID] = &copied
	r.store.noteOrder = append(r.store.noteOrder, note.ID)
	return nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id string) (*domain.Note, error) {
	note, ok := r.store.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	copied := *note
	if owner, ok := r.store.users[note.Owner]; ok {
		copied.OwnerUsername = owner.Username
	}
	return &copied, nil
}

func (r *fakeNoteRepo) GetOwner(_ context.Context, id string) (string, error) {
	note, ok := r.store.notes[id]
	if !ok {
		return "", domain.ErrNoteNotFound
	}
	return note.Owner, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, id, title, body string, tags []string, updatedAt time.Time) (string, error) {
	note, ok := r.store.notes[id]
	if !ok {
		return "", domain.ErrNoteNotFound
	}
	note.Title = title
	note.Body = body
	note.Tags = tags
	note.UpdatedAt = updatedAt
	return note.Owner, nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id string) (string, error) {
	note, ok := r.store.notes[id]
	if !ok {
		return "", domain.ErrNoteNotFound
	}
	delete(r.store.notes, id)
	for i, noteID := range r.store.noteOrder {
		if noteID == id {
			r.store.noteOrder = append(r.store.noteOrder[:i], r.store.noteOrder[i+1:]...)
			break
		}
	}
	return note.Owner, nil
}

func (r *fakeNoteRepo) ListVisible(_ context.Context, userID string, limit int) ([]*domain.Note, error) {
	var notes []*domain.Note
	for _, id := range r.store.noteOrder {
		note := r.store.notes[id]
		_, shared := r.store.collabs[collabKey(id, userID)]
		if note.Owner == userID || shared {
			copied := *note
			notes = append(notes, &copied)
		}
		if len(notes) == limit {
			break
		}
	}
	return notes, nil
}

// ---- collaboration repository ----

type fakeCollabRepo struct {
	store *fakeStore
}

func (r *fakeCollabRepo) Create(_ context.Context, collab *domain.Collaboration) error {
	r.store.collabs[collabKey(collab.NoteID, collab.UserID)] = collab
	return nil
}

func (r *fakeCollabRepo) Delete(_ context.Context, noteID, userID string) error {
	key := collabKey(noteID, userID)
	if _, ok := r.store.collabs[key]; !ok {
		return fmt.Errorf("%w: failed to delete collaboration", domain.ErrInvariant)
	}
	delete(r.store.collabs, key)
	return nil
}

func (r *fakeCollabRepo) Exists(_ context.Context, noteID, userID string) (bool, error) {
	_, ok := r.store.collabs[collabKey(noteID, userID)]
	return ok, nil
}

func (r *fakeCollabRepo) ListUserIDsByNote(_ context.Context, noteID string) ([]string, error) {
	var userIDs []string
	for _, collab := range r.store.collabs {
		if collab.NoteID == noteID {
			userIDs = append(userIDs, collab.UserID)
		}
	}
	return userIDs, nil
}

func (r *fakeCollabRepo) DeleteByNote(_ context.Context, noteID string) error {
	for key, collab := range r.store.collabs {
		if collab.NoteID == noteID {
			delete(r.store.collabs, key)
		}
	}
	return nil
}

// ---- user repository ----

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) SearchByUsername(_ context.Context, partial string) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	for _, user := range r.store.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(partial)) {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ---- token repository ----

type fakeTokenRepo struct {
	store *fakeStore
}

func (r *fakeTokenRepo) Save(_ context.Context, token string) error {
	r.store.tokens[token] = true
	return nil
}

func (r *fakeTokenRepo) Verify(_ context.Context, token string) error {
	if !r.store.tokens[token] {
		return domain.ErrInvalidRefreshToken
	}
	return nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	if !r.store.tokens[token] {
		return domain.ErrInvalidRefreshToken
	}
	delete(r.store.tokens, token)
	return nil
}

// ---- note list cache ----

// fakeCache records hits, fills and invalidations so tests can assert on the
// cache-aside behavior itself.
type fakeCache struct {
	entries map[string][]*domain.Note
	hits    int
	fills   int
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]*domain.Note)}
}

func (c *fakeCache) Get(_ context.Context, userID string) ([]*domain.Note, error) {
	notes, ok := c.entries[userID]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	c.hits++
	return notes, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, notes []*domain.Note) error {
	copied := make([]*domain.Note, len(notes))
	for i, note := range notes {
		n := *note
		copied[i] = &n
	}
	c.entries[userID] = copied
	c.fills++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, userID string) error {
	delete(c.entries, userID)
	c.deletes = append(c.deletes, userID)
	return nil
}

// ---- event publisher ----

type capturingPublisher struct {
	events []*NoteEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event *NoteEvent) error {
	p.events = append(p.events, event)
	return nil
}
