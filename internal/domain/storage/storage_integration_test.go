//go:build integration

package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"eventreview/internal/db"
	"eventreview/internal/domain/events"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/responses"
	"eventreview/internal/domain/reviews"
	"eventreview/internal/domain/storage"
	"eventreview/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupStore(t *testing.T) (*storage.Container, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("eventreview"),
		tcpostgres.WithUsername("eventreview"),
		tcpostgres.WithPassword("eventreview"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.MigrateUp(dbURL))

	pool, err := db.New(dbURL, 10, "1m")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return storage.NewContainer(pool), dbURL
}

func createUser(t *testing.T, s *storage.Container, email string) *users.User {
	t.Helper()

	u := &users.User{Username: "user", Email: email}
	require.NoError(t, u.Password.Set("pass123"))
	require.NoError(t, s.Users.Create(t.Context(), u))
	return u
}

func createReview(t *testing.T, s *storage.Container) (*reviews.Review, *events.Event) {
	t.Helper()

	author := createUser(t, s, "author-"+uuid.NewString()+"@example.com")
	event := &events.Event{Title: "Meetup", Description: "talks", Date: time.Now()}
	require.NoError(t, s.Events.Create(t.Context(), event))

	rv := &reviews.Review{
		UserID:  author.ID,
		EventID: event.ID,
		Ratings: reviews.Ratings{RegistrationExperience: 3, EventExperience: 4, BreakfastExperience: 2, OverallRating: 4},
		Content: "fine",
	}
	require.NoError(t, s.Reviews.Create(t.Context(), rv))
	return rv, event
}

func TestStorage(t *testing.T) {
	s, dbURL := setupStore(t)

	t.Run("concurrent duplicate likes count once", func(t *testing.T) {
		rv, _ := createReview(t, s)
		fan := createUser(t, s, "fan@example.com")

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
			dupes    int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Reviews.Like(context.Background(), rv.ID, fan.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					accepted++
				case errors.Is(err, reviews.ErrAlreadyLiked):
					dupes++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, accepted)
		assert.Equal(t, 19, dupes)

		stored, err := s.Reviews.GetByID(t.Context(), rv.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{fan.ID}, stored.Likes)
	})

	t.Run("like unknown review", func(t *testing.T) {
		fan := createUser(t, s, "fan2@example.com")
		_, err := s.Reviews.Like(t.Context(), uuid.New(), fan.ID)
		assert.ErrorIs(t, err, reviews.ErrNotFound)
	})

	t.Run("sixth report flags the review", func(t *testing.T) {
		rv, _ := createReview(t, s)

		for i := 1; i <= reviews.FlagThreshold+2; i++ {
			reporter := createUser(t, s, fmt.Sprintf("reporter%d@example.com", i))
			res, err := s.Reviews.Report(t.Context(), rv.ID, reporter.ID)
			require.NoError(t, err)

			assert.Equal(t, i, res.Reports)
			assert.Equal(t, i > reviews.FlagThreshold, res.Flagged)
			assert.Equal(t, i == reviews.FlagThreshold+1, res.NewlyFlagged)
		}

		_, err := s.Reviews.Report(t.Context(), rv.ID, rv.UserID)
		require.NoError(t, err)
		_, err = s.Reviews.Report(t.Context(), rv.ID, rv.UserID)
		assert.ErrorIs(t, err, reviews.ErrAlreadyReported)
	})

	t.Run("organizer response is attached once", func(t *testing.T) {
		rv, event := createReview(t, s)
		org := &organizers.Organizer{Name: "Org", Email: "org@example.com", Events: []uuid.UUID{event.ID}}
		require.NoError(t, org.Password.Set("pass123"))
		require.NoError(t, s.Organizers.Create(t.Context(), org))

		first := &responses.Response{ReviewID: rv.ID, OrganizerID: &org.ID, Content: "thanks"}
		require.NoError(t, s.Responses.CreateForReview(t.Context(), first))

		second := &responses.Response{ReviewID: rv.ID, OrganizerID: &org.ID, Content: "again"}
		assert.ErrorIs(t, s.Responses.CreateForReview(t.Context(), second), responses.ErrAlreadyResponded)

		list, err := s.Responses.ListByReview(t.Context(), rv.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		stored, err := s.Reviews.GetByID(t.Context(), rv.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.OrganizerResponse)
		assert.Equal(t, first.ID, stored.OrganizerResponse.ID)
		require.NotNil(t, stored.OrganizerResponse.Organizer)
		assert.Equal(t, "Org", stored.OrganizerResponse.Organizer.Name)

		byOrg, err := s.Reviews.ListByOrganizer(t.Context(), org.ID)
		require.NoError(t, err)
		require.Len(t, byOrg, 1)
		assert.Equal(t, rv.ID, byOrg[0].ID)

		err = s.Responses.CreateForReview(t.Context(), &responses.Response{ReviewID: uuid.New(), OrganizerID: &org.ID, Content: "x"})
		assert.ErrorIs(t, err, responses.ErrReviewNotFound)
	})

	t.Run("organizer constraints", func(t *testing.T) {
		_, event := createReview(t, s)

		org := &organizers.Organizer{Name: "A", Email: "dup@example.com", Events: []uuid.UUID{event.ID}}
		require.NoError(t, org.Password.Set("pass123"))
		require.NoError(t, s.Organizers.Create(t.Context(), org))
		assert.Equal(t, []uuid.UUID{event.ID}, org.Events)

		dup := &organizers.Organizer{Name: "B", Email: "dup@example.com"}
		require.NoError(t, dup.Password.Set("pass123"))
		assert.ErrorIs(t, s.Organizers.Create(t.Context(), dup), organizers.ErrDuplicateEmail)

		missing := &organizers.Organizer{Name: "C", Email: "missing@example.com", Events: []uuid.UUID{uuid.New()}}
		require.NoError(t, missing.Password.Set("pass123"))
		assert.ErrorIs(t, s.Organizers.Create(t.Context(), missing), organizers.ErrEventNotFound)

		_, err := s.Organizers.GetByEmail(t.Context(), "missing@example.com")
		assert.ErrorIs(t, err, organizers.ErrNotFound)

		updated, err := s.Organizers.SetValidated(t.Context(), org.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Validated)
		assert.Equal(t, []uuid.UUID{event.ID}, updated.Events)

		_, err = s.Organizers.SetValidated(t.Context(), uuid.New(), true)
		assert.ErrorIs(t, err, organizers.ErrNotFound)
	})

	t.Run("review with unknown user", func(t *testing.T) {
		_, event := createReview(t, s)
		rv := &reviews.Review{
			UserID:  uuid.New(),
			EventID: event.ID,
			Ratings: reviews.Ratings{RegistrationExperience: 1, EventExperience: 1, BreakfastExperience: 1, OverallRating: 1},
		}
		assert.ErrorIs(t, s.Reviews.Create(t.Context(), rv), reviews.ErrReferenceNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(t.Context()))
	})

	// runs last: it drops every table
	t.Run("migrations roll back and reapply", func(t *testing.T) {
		require.NoError(t, db.MigrateDown(dbURL, 1))

		_, err := s.Users.List(t.Context())
		require.Error(t, err)

		require.NoError(t, db.MigrateUp(dbURL))

		list, err := s.Users.List(t.Context())
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.Error(t, db.MigrateDown(dbURL, 0))
	})
}
