package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := InitDB("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepositories(db)
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB("mysql", "whatever")
	assert.Error(t, err)
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	repos := newTestRepos(t)

	user, err := repos.User.Create(" Alice@Example.com ", "alice", "secret1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = repos.User.Create("alice@example.com", "other", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := repos.User.Authenticate("ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repos.User.Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repos.User.Authenticate("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFindByEmailMissing(t *testing.T) {
	repos := newTestRepos(t)
	user, err := repos.User.FindByEmail("missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFavorites(t *testing.T) {
	repos := newTestRepos(t)
	user, err := repos.User.Create("bob@example.com", "bob", "secret1")
	require.NoError(t, err)

	require.NoError(t, repos.Favorite.Add(user.ID, 603))
	require.NoError(t, repos.Favorite.Add(user.ID, 603))
	require.NoError(t, repos.Favorite.Add(user.ID, 19995))

	favs, err := repos.Favorite.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 2)

	ok, err := repos.Favorite.IsFavorited(user.ID, 603)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repos.Favorite.Remove(user.ID, 603))
	ok, err = repos.Favorite.IsFavorited(user.ID, 603)
	require.NoError(t, err)
	assert.False(t, ok)
}
