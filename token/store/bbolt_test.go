package store_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/store"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *store.Bolt {
	t.Helper()
	repo, err := store.NewBoltFromFile(filepath.Join(t.TempDir(), "tokens.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestBoltRoundTrip(t *testing.T) {
	repo := newBoltStore(t)

	creds := token.Credentials{Access: "access-1", Refresh: "refresh-1"}
	require.NoError(t, repo.Save(creds))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, creds, loaded)
}

func TestBoltPartialSaveLeavesOtherEntryUntouched(t *testing.T) {
	repo := newBoltStore(t)

	require.NoError(t, repo.Save(token.Credentials{Access: "access-1", Refresh: "refresh-1"}))

	// Access-only rotation must not clobber the stored refresh token.
	require.NoError(t, repo.Save(token.Credentials{Access: "access-2"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, "access-2", loaded.AccessToken())
	require.Equal(t, "refresh-1", loaded.RefreshToken())
}

func TestBoltLoadRequiresBothEntries(t *testing.T) {
	repo := newBoltStore(t)

	require.NoError(t, repo.Save(token.Credentials{Access: "access-only"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())
}

func TestBoltLoadEmptyStore(t *testing.T) {
	repo := newBoltStore(t)

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())
}

func TestBoltClear(t *testing.T) {
	repo := newBoltStore(t)

	require.NoError(t, repo.Save(token.Credentials{Access: "a", Refresh: "r"}))
	require.NoError(t, repo.Clear())

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())

	// Clearing an already empty store is fine.
	require.NoError(t, repo.Clear())
}
