package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password holds a bcrypt hash. The plaintext is never kept.
type Password struct {
	hash []byte
}

func (p *Password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

func (p *Password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

func (p Password) Hash() []byte {
	return p.hash
}

// Scan implements sql.Scanner so repositories can scan the bytea column directly.
func (p *Password) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		p.hash = append([]byte(nil), v...)
	case string:
		p.hash = []byte(v)
	case nil:
		p.hash = nil
	default:
		return fmt.Errorf("password: cannot scan %T", src)
	}
	return nil
}
