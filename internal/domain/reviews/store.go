package reviews

import (
	"context"
	"errors"
	"time"

	"eventreview/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(context.Context, *Review) error
	GetByID(context.Context, uuid.UUID) (*Review, error)
	ListByEvent(context.Context, uuid.UUID) ([]Review, error)
	ListByOrganizer(context.Context, uuid.UUID) ([]Review, error)
	Like(ctx context.Context, reviewID, userID uuid.UUID) (int, error)
	Report(ctx context.Context, reviewID, userID uuid.UUID) (*ReportResult, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) Store {
	return &Repository{db: db}
}

const selectReview = `
SELECT r.id, r.user_id, r.event_id,
       r.registration_experience, r.event_experience, r.breakfast_experience, r.overall_rating,
       r.content, r.likes, r.reports, r.flagged, r.created_at,
       resp.id, resp.content, resp.created_at,
       o.id, o.name, o.email
FROM reviews r
LEFT JOIN responses resp ON resp.id = r.organizer_response
LEFT JOIN organizers o ON o.id = resp.organizer_id
`

func scanReview(row pgx.Row) (*Review, error) {
	var (
		rv          Review
		respID      *uuid.UUID
		respContent *string
		respCreated *time.Time
		orgID       *uuid.UUID
		orgName     *string
		orgEmail    *string
	)
	err := row.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.EventID,
		&rv.Ratings.RegistrationExperience,
		&rv.Ratings.EventExperience,
		&rv.Ratings.BreakfastExperience,
		&rv.Ratings.OverallRating,
		&rv.Content,
		&rv.Likes,
		&rv.Reports,
		&rv.Flagged,
		&rv.CreatedAt,
		&respID,
		&respContent,
		&respCreated,
		&orgID,
		&orgName,
		&orgEmail,
	)
	if err != nil {
		return nil, err
	}

	if respID != nil {
		rv.OrganizerResponse = &OrganizerResponse{ID: *respID}
		if respContent != nil {
			rv.OrganizerResponse.Content = *respContent
		}
		if respCreated != nil {
			rv.OrganizerResponse.CreatedAt = *respCreated
		}
		if orgID != nil {
			rv.OrganizerResponse.Organizer = &OrganizerSummary{ID: *orgID}
			if orgName != nil {
				rv.OrganizerResponse.Organizer.Name = *orgName
			}
			if orgEmail != nil {
				rv.OrganizerResponse.Organizer.Email = *orgEmail
			}
		}
	}
	return &rv, nil
}

func (r *Repository) list(ctx context.Context, query string, arg any) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rv)
	}
	return list, rows.Err()
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (user_id, event_id, registration_experience, event_experience,
                             breakfast_experience, overall_rating, content)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, flagged, created_at
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		review.UserID,
		review.EventID,
		review.Ratings.RegistrationExperience,
		review.Ratings.EventExperience,
		review.Ratings.BreakfastExperience,
		review.Ratings.OverallRating,
		review.Content,
	).Scan(&review.ID, &review.Flagged, &review.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsFKViolation(err); ok {
			return ErrReferenceNotFound
		}
		return err
	}

	review.Likes = []uuid.UUID{}
	review.Reports = []uuid.UUID{}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, reviewID uuid.UUID) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rv, err := scanReview(r.db.QueryRow(ctx, selectReview+` WHERE r.id = $1`, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

// ListByEvent returns the reviews of one event, newest first, with the
// organizer response populated.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Review, error) {
	return r.list(ctx, selectReview+` WHERE r.event_id = $1 ORDER BY r.created_at DESC`, eventID)
}

// ListByOrganizer returns the reviews of every event linked to the organizer.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Review, error) {
	return r.list(ctx, selectReview+`
WHERE r.event_id IN (SELECT event_id FROM organizer_events WHERE organizer_id = $1)
ORDER BY r.created_at DESC`, organizerID)
}

// Like appends userID to the review's likes unless it is already there. The
// check and the append are one statement, so concurrent duplicate likes cannot
// both succeed.
func (r *Repository) Like(ctx context.Context, reviewID, userID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var likes int
	err := r.db.QueryRow(ctx, `
UPDATE reviews
SET likes = array_append(likes, $2::uuid)
WHERE id = $1 AND NOT ($2::uuid = ANY(likes))
RETURNING cardinality(likes)
`, reviewID, userID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.missOrDuplicate(ctx, reviewID, ErrAlreadyLiked)
		}
		return 0, err
	}
	return likes, nil
}

// Report appends userID to the review's reports and flags the review once the
// count exceeds FlagThreshold. Flagging is never undone.
func (r *Repository) Report(ctx context.Context, reviewID, userID uuid.UUID) (*ReportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var res ReportResult
	err := r.db.QueryRow(ctx, `
UPDATE reviews
SET reports = array_append(reports, $2::uuid),
    flagged = flagged OR cardinality(reports) + 1 > $3
WHERE id = $1 AND NOT ($2::uuid = ANY(reports))
RETURNING cardinality(reports), flagged
`, reviewID, userID, FlagThreshold).Scan(&res.Reports, &res.Flagged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrDuplicate(ctx, reviewID, ErrAlreadyReported)
		}
		return nil, err
	}
	res.NewlyFlagged = res.Flagged && res.Reports == FlagThreshold+1
	return &res, nil
}

func (r *Repository) missOrDuplicate(ctx context.Context, reviewID uuid.UUID, dup error) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, reviewID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return dup
}
