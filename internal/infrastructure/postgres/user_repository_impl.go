package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id::text, name, email, COALESCE(password_hash, ''), COALESCE(google_id, ''), role, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, google_id, role)
		VALUES ($1, lower($2), NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id::text, created_at
	`, u.Name, u.Email, u.Password, u.GoogleID, string(u.Role))

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var role string
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.GoogleID, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `id::text = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `email = lower($1)`, email)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	if googleID == "" {
		return nil, repository.ErrUserNotFound
	}
	return r.getOne(ctx, `google_id = $1`, googleID)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	return r.exec(ctx, `UPDATE users SET google_id = $1, updated_at = now() WHERE id::text = $2`, googleID, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, password string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id::text = $2`, password, id)
}

// Reset truncates the users table; used by the seed importer.
func (r *UserRepository) Reset(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `TRUNCATE users`)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
