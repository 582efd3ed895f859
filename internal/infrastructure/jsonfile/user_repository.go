package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/domain/repository"
)

// flexID reads both the numeric ids of older user files and uuid strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type userRecord struct {
	ID        flexID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	GoogleID  string    `json:"googleId,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (rec userRecord) toEntity() *entity.User {
	role := entity.Role(rec.Role)
	if !role.Valid() {
		role = entity.RoleCustomer
	}
	return &entity.User{
		ID:        string(rec.ID),
		Name:      rec.Name,
		Email:     rec.Email,
		Password:  rec.Password,
		GoogleID:  rec.GoogleID,
		Role:      role,
		CreatedAt: rec.CreatedAt,
	}
}

func recordFrom(u *entity.User) userRecord {
	return userRecord{
		ID:        flexID(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		GoogleID:  u.GoogleID,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type UserRepository struct {
	path string
	mu   sync.Mutex
}

func NewUserRepository(path string) *UserRepository {
	return &UserRepository{path: path}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := readAll[userRecord](r.path)
	if err != nil {
		return err
	}
	for _, rec := range users {
		if strings.EqualFold(rec.Email, u.Email) {
			return repository.ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	users = append(users, recordFrom(u))
	return writeAll(r.path, users)
}

func (r *UserRepository) find(match func(userRecord) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := readAll[userRecord](r.path)
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if match(rec) {
			return rec.toEntity(), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(func(rec userRecord) bool { return string(rec.ID) == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(rec userRecord) bool { return strings.EqualFold(rec.Email, email) })
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	if googleID == "" {
		return nil, repository.ErrUserNotFound
	}
	return r.find(func(rec userRecord) bool { return rec.GoogleID == googleID })
}

func (r *UserRepository) update(id string, mutate func(*userRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := readAll[userRecord](r.path)
	if err != nil {
		return err
	}
	for i := range users {
		if string(users[i].ID) == id {
			mutate(&users[i])
			return writeAll(r.path, users)
		}
	}
	return repository.ErrUserNotFound
}

func (r *UserRepository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	return r.update(id, func(rec *userRecord) { rec.GoogleID = googleID })
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, password string) error {
	return r.update(id, func(rec *userRecord) { rec.Password = password })
}

// Reset empties the file; used by the seed importer.
func (r *UserRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeAll(r.path, []userRecord{})
}

var _ repository.UserRepository = (*UserRepository)(nil)
