package reviews

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlagThreshold is the report count a review has to exceed to be flagged.
const FlagThreshold = 5

var (
	ErrNotFound          = errors.New("review not found")
	ErrAlreadyLiked      = errors.New("review already liked by this user")
	ErrAlreadyReported   = errors.New("review already reported by this user")
	ErrReferenceNotFound = errors.New("referenced resource does not exist")
	QueryTimeoutDuration = time.Second * 5
)

type Ratings struct {
	RegistrationExperience int `json:"registration_experience" validate:"required,min=1,max=5"`
	EventExperience        int `json:"event_experience" validate:"required,min=1,max=5"`
	BreakfastExperience    int `json:"breakfast_experience" validate:"required,min=1,max=5"`
	OverallRating          int `json:"overall_rating" validate:"required,min=1,max=5"`
}

type OrganizerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// OrganizerResponse is the response attached to a review, joined with the
// organizer who wrote it.
type OrganizerResponse struct {
	ID        uuid.UUID         `json:"id"`
	Content   string            `json:"content"`
	Organizer *OrganizerSummary `json:"organizer,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Review struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	EventID           uuid.UUID          `json:"event_id"`
	Ratings           Ratings            `json:"ratings"`
	Content           string             `json:"content"`
	Likes             []uuid.UUID        `json:"likes"`
	Reports           []uuid.UUID        `json:"reports"`
	OrganizerResponse *OrganizerResponse `json:"organizer_response"`
	Flagged           bool               `json:"flagged"`
	CreatedAt         time.Time          `json:"created_at"`
}

type ReportResult struct {
	Reports int
	Flagged bool
	// NewlyFlagged is set only by the report that pushed the count over the threshold.
	NewlyFlagged bool
}
