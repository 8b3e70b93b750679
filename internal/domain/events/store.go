package events

import (
	"context"
	"errors"

	"eventreview/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(context.Context, *Event) error
	List(context.Context) ([]Event, error)
	GetByID(context.Context, uuid.UUID) (*Event, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *Event) error {
	query := `
        INSERT INTO events (title, description, date)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query, event.Title, event.Description, event.Date).
		Scan(&event.ID, &event.CreatedAt)
}

func (r *Repository) List(ctx context.Context) ([]Event, error) {
	query := `
        SELECT id, title, description, date, created_at
        FROM events
        ORDER BY date
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	query := `SELECT id, title, description, date, created_at FROM events WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var e Event
	err := r.db.QueryRow(ctx, query, eventID).Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
