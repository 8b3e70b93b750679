package responses

import (
	"context"
	"errors"

	"eventreview/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(context.Context, *Response) error
	ListByReview(context.Context, uuid.UUID) ([]Response, error)
	CreateForReview(context.Context, *Response) error
}

type Repository struct {
	db dbx.TxBeginner
}

func NewRepository(db dbx.TxBeginner) Store {
	return &Repository{db: db}
}

const insertResponse = `
INSERT INTO responses (review_id, organizer_id, content)
VALUES ($1, $2, $3)
RETURNING id, created_at
`

// Create stores a response without attaching it to the review.
func (r *Repository) Create(ctx context.Context, resp *Response) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, insertResponse, resp.ReviewID, resp.OrganizerID, resp.Content).
		Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsFKViolation(err); ok {
			return ErrReferenceNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]Response, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
SELECT id, review_id, organizer_id, content, created_at
FROM responses
WHERE review_id = $1
ORDER BY created_at
`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Response{}
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.ID, &resp.ReviewID, &resp.OrganizerID, &resp.Content, &resp.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, resp)
	}
	return list, rows.Err()
}

// CreateForReview inserts the organizer's response and attaches it to the
// review in one transaction. The attach only succeeds while the review has no
// response yet, so an existing response is never replaced.
func (r *Repository) CreateForReview(ctx context.Context, resp *Response) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	var hasResponse bool
	err = tx.QueryRow(ctx, `
SELECT organizer_response IS NOT NULL FROM reviews WHERE id = $1 FOR UPDATE
`, resp.ReviewID).Scan(&hasResponse)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if hasResponse {
		return ErrAlreadyResponded
	}

	err = tx.QueryRow(ctx, insertResponse, resp.ReviewID, resp.OrganizerID, resp.Content).
		Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsFKViolation(err); ok {
			return ErrReferenceNotFound
		}
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE reviews SET organizer_response = $2
WHERE id = $1 AND organizer_response IS NULL
`, resp.ReviewID, resp.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyResponded
	}

	return tx.Commit(ctx)
}
