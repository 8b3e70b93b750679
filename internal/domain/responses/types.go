package responses

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrAlreadyResponded  = errors.New("this review already has an organizer response")
	ErrReferenceNotFound = errors.New("referenced resource does not exist")
	QueryTimeoutDuration = time.Second * 5
)

type Response struct {
	ID          uuid.UUID  `json:"id"`
	ReviewID    uuid.UUID  `json:"review_id"`
	OrganizerID *uuid.UUID `json:"organizer_id"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
}
