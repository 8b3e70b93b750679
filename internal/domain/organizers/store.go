package organizers

import (
	"context"
	"errors"

	"eventreview/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(context.Context, *Organizer) error
	List(context.Context) ([]Organizer, error)
	GetByID(context.Context, uuid.UUID) (*Organizer, error)
	GetByEmail(context.Context, string) (*Organizer, error)
	SetValidated(ctx context.Context, organizerID uuid.UUID, validated bool) (*Organizer, error)
}

type Repository struct {
	db dbx.TxBeginner
}

func NewRepository(db dbx.TxBeginner) Store {
	return &Repository{db: db}
}

const selectOrganizer = `
SELECT o.id, o.name, o.email, o.password, o.validated, o.created_at,
       COALESCE(array_agg(oe.event_id) FILTER (WHERE oe.event_id IS NOT NULL), '{}') AS events
FROM organizers o
LEFT JOIN organizer_events oe ON oe.organizer_id = o.id
`

func scanOrganizer(row pgx.Row) (*Organizer, error) {
	var o Organizer
	if err := row.Scan(&o.ID, &o.Name, &o.Email, &o.Password, &o.Validated, &o.CreatedAt, &o.Events); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the organizer and its event links atomically.
func (r *Repository) Create(ctx context.Context, o *Organizer) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	err = tx.QueryRow(ctx, `
INSERT INTO organizers (name, email, password)
VALUES ($1, $2, $3)
RETURNING id, validated, created_at
`, o.Name, o.Email, o.Password.Hash()).Scan(&o.ID, &o.Validated, &o.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return ErrDuplicateEmail
		}
		return err
	}

	for _, eventID := range o.Events {
		_, err := tx.Exec(ctx, `
INSERT INTO organizer_events (organizer_id, event_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, o.ID, eventID)
		if err != nil {
			if _, ok := dbx.IsFKViolation(err); ok {
				return ErrEventNotFound
			}
			return err
		}
	}
	if o.Events == nil {
		o.Events = []uuid.UUID{}
	}

	return tx.Commit(ctx)
}

func (r *Repository) List(ctx context.Context) ([]Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, selectOrganizer+` GROUP BY o.id ORDER BY o.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Organizer{}
	for rows.Next() {
		o, err := scanOrganizer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, organizerID uuid.UUID) (*Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	o, err := scanOrganizer(r.db.QueryRow(ctx, selectOrganizer+` WHERE o.id = $1 GROUP BY o.id`, organizerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	o, err := scanOrganizer(r.db.QueryRow(ctx, selectOrganizer+` WHERE o.email = $1 GROUP BY o.id`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// SetValidated flips the admin approval flag and returns the updated organizer.
func (r *Repository) SetValidated(ctx context.Context, organizerID uuid.UUID, validated bool) (*Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE organizers SET validated = $2 WHERE id = $1`, organizerID, validated)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	o, err := scanOrganizer(r.db.QueryRow(ctx, selectOrganizer+` WHERE o.id = $1 GROUP BY o.id`, organizerID))
	if err != nil {
		return nil, err
	}
	return o, nil
}
