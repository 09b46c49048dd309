package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdash/salesdash/models"
)

func TestFileSessionStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileSessionStorage(path)

	// Missing file means no session, not an error
	session, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, session)

	saved := &models.Session{
		User:            &models.User{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: "admin"},
		Token:           "tok-123",
		IsAuthenticated: true,
	}
	require.NoError(t, storage.Save(saved))

	loaded, err := storage.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Token, loaded.Token)
	assert.Equal(t, saved.User.Email, loaded.User.Email)
	assert.True(t, loaded.IsAuthenticated)

	require.NoError(t, storage.Clear())
	loaded, err = storage.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine
	require.NoError(t, storage.Clear())
}

func TestFileSessionStorage_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileSessionStorage(path)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := storage.Load()
	assert.Error(t, err)
}
