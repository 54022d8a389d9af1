package sqlite

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/repository"
)

// newTestDB opens an in-memory database with migrations applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := domain.NewUser("alice", "$2a$10$fakehash")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := domain.NewUser("alice", "$2a$10$otherhash")
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("different username accepted", func(t *testing.T) {
		other := domain.NewUser("bob", "$2a$10$fakehash")
		require.NoError(t, repo.Create(ctx, other))
		assert.Greater(t, other.ID, user.ID)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := domain.NewUser("alice", "$2a$10$fakehash")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := domain.NewUser("alice", "$2a$10$fakehash")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.NewUser("alice", "$2a$10$fakehash")))

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_CorruptTimestampIsAnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		"broken", "$2a$10$fakehash", "not-a-timestamp",
	)
	require.NoError(t, err)

	_, err = repo.GetByUsername(ctx, "broken")
	assert.Error(t, err)

	_, err = repo.List(ctx, repository.ListOptions{Limit: 10})
	assert.Error(t, err)
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repo.Create(ctx, domain.NewUser(name, "$2a$10$fakehash")))
	}

	users, err := repo.List(ctx, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "carol", users[2].Username)

	page, err := repo.List(ctx, repository.ListOptions{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bob", page[0].Username)
}
