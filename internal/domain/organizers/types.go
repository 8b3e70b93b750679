package organizers

import (
	"errors"
	"time"

	"eventreview/internal/auth"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateEmail    = errors.New("an organizer with that email already exists")
	ErrEventNotFound     = errors.New("referenced event does not exist")
	QueryTimeoutDuration = time.Second * 5
)

type Organizer struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Password  auth.Password `json:"-"`
	Events    []uuid.UUID   `json:"events"`
	Validated bool          `json:"validated"`
	CreatedAt time.Time     `json:"created_at"`
}
