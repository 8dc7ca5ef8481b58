package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "libdesk", "state.yaml"))
		},
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			_, ok := s.Get(TokenKey)
			assert.False(t, ok)

			require.NoError(t, s.Set(TokenKey, "abc"))
			require.NoError(t, s.Set(APIURLKey, "http://lib.example"))
			v, ok := s.Get(TokenKey)
			assert.True(t, ok)
			assert.Equal(t, "abc", v)

			require.NoError(t, s.Delete(TokenKey, UserKey))
			_, ok = s.Get(TokenKey)
			assert.False(t, ok)
			v, _ = s.Get(APIURLKey)
			assert.Equal(t, "http://lib.example", v)
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s := NewFileStore(path)
	require.NoError(t, s.Set(TokenKey, "persisted"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileStore(path)
	v, ok := reopened.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	s := NewFileStore(path)
	_, ok := s.Get(TokenKey)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Set(TokenKey, "x"), ErrStoreRead)
}
