package users

import (
	"errors"
	"time"

	"eventreview/internal/auth"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

type User struct {
	ID        uuid.UUID     `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Password  auth.Password `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}
