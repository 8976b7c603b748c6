package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notehub/internal/domain"
)

// unreachableDB opens a gorm handle against a port nothing listens on, so
// every query fails at the transport layer.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=postgres dbname=notehub sslmode=disable connect_timeout=1"), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestCreateStoreErrorIsNotInvariant(t *testing.T) {
	db := unreachableDB(t)
	ctx := context.Background()

	t.Run("note", func(t *testing.T) {
		repo := NewNoteRepository(db)
		err := repo.Create(ctx, domain.NewNote("shopping", "eggs", []string{"errands"}, "user-1a2b3c4d5e6f7a8b"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvariant, "store failures must not map to a client error")
	})

	t.Run("user", func(t *testing.T) {
		repo := NewUserRepository(db)
		user, err := domain.NewUser("dicoding", "secret", "Dicoding Indonesia")
		require.NoError(t, err)

		err = repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvariant)
	})

	t.Run("collaboration", func(t *testing.T) {
		repo := NewCollaborationRepository(db)
		err := repo.Create(ctx, domain.NewCollaboration("note-1a2b3c4d5e6f7a8b", "user-1a2b3c4d5e6f7a8b"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvariant)
	})

	t.Run("token", func(t *testing.T) {
		repo := NewTokenRepository(db)
		err := repo.Save(ctx, "some-refresh-token-"+time.Now().Format(time.RFC3339Nano))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvariant)
	})
}
