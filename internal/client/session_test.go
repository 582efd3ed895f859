package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewSession(path)
	require.NoError(t, s.Load())
	require.False(t, s.LoggedIn())
	require.False(t, s.IsAdmin())

	s.Set(entity.PublicUser{ID: "u1", Name: "Asha", Email: "asha@x.io", Role: entity.RoleAdmin}, "tok")
	require.True(t, s.IsAdmin())
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded := NewSession(path)
	require.NoError(t, loaded.Load())
	require.True(t, loaded.LoggedIn())
	require.Equal(t, "Asha", loaded.User.Name)
	require.Equal(t, "tok", loaded.Token)

	loaded.Clear()
	require.NoError(t, loaded.Save())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// saving an already cleared session is fine
	require.NoError(t, loaded.Save())
}

func TestSession_CustomerIsNotAdmin(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "session.json"))
	s.Set(entity.PublicUser{ID: "u1", Role: entity.RoleCustomer}, "tok")
	require.True(t, s.LoggedIn())
	require.False(t, s.IsAdmin())
}

func TestSession_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	require.Error(t, NewSession(path).Load())
}
