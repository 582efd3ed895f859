package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

// UserRepository defines the interface for user persistence.
// Get* methods return ErrUserNotFound when nothing matches; Create returns
// ErrEmailTaken when the email is already registered.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	LinkGoogleID(ctx context.Context, id, googleID string) error
	UpdatePassword(ctx context.Context, id, password string) error
}
