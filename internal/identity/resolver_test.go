package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return store.NewGormStore(db)
}

func TestStoreResolver_Resolve(t *testing.T) {
	s := newTestStore(t)
	resolver := NewStoreResolver(s, DefaultSeedUsers())
	ctx := context.Background()

	t.Run("Seed account resolves without a database row", func(t *testing.T) {
		id, err := resolver.Resolve(ctx, "demo")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("Database account resolves", func(t *testing.T) {
		user, err := s.CreateUser(ctx, model.User{
			StudentID: "777000",
			Password:  "secret",
			Name:      "Registered Student",
			Email:     "reg@university.edu",
		})
		require.NoError(t, err)

		id, err := resolver.Resolve(ctx, "777000")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("Unknown student id", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "999999")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestStoreResolver_SeedPasswordMatches(t *testing.T) {
	resolver := NewStoreResolver(nil, DefaultSeedUsers())

	seed, ok := resolver.SeedPasswordMatches("demo", "demo")
	assert.True(t, ok)
	assert.Equal(t, "Demo User", seed.Name)

	_, ok = resolver.SeedPasswordMatches("demo", "wrong")
	assert.False(t, ok)

	_, ok = resolver.SeedPasswordMatches("nobody", "demo")
	assert.False(t, ok)
}
