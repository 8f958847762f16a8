package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"perfumeria/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,name,password_hash FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,name,password_hash FROM users WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert creates the user or resets name and password hash when the email
// already exists.
func (r *UserRepo) Upsert(ctx context.Context, email, name, hash string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO users(id,email,name,password_hash)
		VALUES(?,?,?,?)
		ON CONFLICT(email) DO UPDATE SET name=excluded.name, password_hash=excluded.password_hash,
		  updated_at=CURRENT_TIMESTAMP`), uuid.NewString(), email, name, hash)
	if err != nil {
		return nil, err
	}
	return r.ByEmail(ctx, email)
}
