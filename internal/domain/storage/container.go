package storage

import (
	"context"

	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/events"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/responses"
	"eventreview/internal/domain/reviews"
	"eventreview/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool       *pgxpool.Pool
	Users      users.Store
	Events     events.Store
	Organizers organizers.Store
	Reviews    reviews.Store
	Responses  responses.Store
	Admins     admins.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:       db,
		Users:      users.NewRepository(db),
		Events:     events.NewRepository(db),
		Organizers: organizers.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
		Responses:  responses.NewRepository(db),
		Admins:     admins.NewRepository(db),
	}
}

// Ping reports whether the database is reachable. A container built without a
// pool (tests) is always healthy.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Ping(ctx)
}
