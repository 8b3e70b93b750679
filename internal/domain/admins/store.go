package admins

import (
	"context"
	"errors"

	"eventreview/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	GetByID(context.Context, uuid.UUID) (*Admin, error)
	GetByEmail(context.Context, string) (*Admin, error)
	Upsert(context.Context, *Admin) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) Store {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, adminID uuid.UUID) (*Admin, error) {
	return r.getOne(ctx, `SELECT id, email, password, created_at FROM admins WHERE id = $1`, adminID)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.getOne(ctx, `SELECT id, email, password, created_at FROM admins WHERE email = $1`, email)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var a Admin
	err := r.db.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Upsert creates the admin or resets the password of an existing one with the
// same email. Used by the start-up bootstrap.
func (r *Repository) Upsert(ctx context.Context, a *Admin) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, `
INSERT INTO admins (email, password)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password
RETURNING id, created_at
`, a.Email, a.Password.Hash()).Scan(&a.ID, &a.CreatedAt)
}
