package auth

import "github.com/google/uuid"

// Role is the kind of principal a token was issued to.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type Authenticator interface {
	GenerateToken(subject uuid.UUID, email string, role Role) (string, error)
	ValidateToken(token string) (*Claims, error)
}
