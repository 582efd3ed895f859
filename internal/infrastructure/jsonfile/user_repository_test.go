package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/domain/repository"
)

func TestUserRepository_ReadsNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	legacy := `[
		{"id": 1718000000001, "name": "Old", "email": "old@x.io", "password": "plain", "role": "admin"},
		{"id": "b3c1", "name": "New", "email": "new@x.io", "role": "superuser"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	r := NewUserRepository(path)
	u, err := r.GetByID(context.Background(), "1718000000001")
	require.NoError(t, err)
	require.Equal(t, "Old", u.Name)
	require.Equal(t, entity.RoleAdmin, u.Role)

	u, err = r.GetByEmail(context.Background(), "NEW@x.io")
	require.NoError(t, err)
	require.Equal(t, "b3c1", u.ID)
	require.Equal(t, entity.RoleCustomer, u.Role, "unknown roles fall back to customer")

	users, err := LoadUsers(path)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(filepath.Join(t.TempDir(), "users.json"))

	u := &entity.User{Name: "A", Email: "a@x.io", Role: entity.RoleCustomer}
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	err := r.Create(ctx, &entity.User{Name: "B", Email: "A@X.IO", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestUserRepository_GoogleLinkAndPassword(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(filepath.Join(t.TempDir(), "users.json"))
	u := &entity.User{Name: "A", Email: "a@x.io", Role: entity.RoleCustomer}
	require.NoError(t, r.Create(ctx, u))

	_, err := r.GetByGoogleID(ctx, "")
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, r.LinkGoogleID(ctx, u.ID, "g-1"))
	got, err := r.GetByGoogleID(ctx, "g-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "hash"))
	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "hash", got.Password)

	require.ErrorIs(t, r.LinkGoogleID(ctx, "missing", "g-2"), repository.ErrUserNotFound)
}
