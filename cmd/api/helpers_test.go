package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"eventreview/internal/auth"
	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/events"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/reviews"
	"eventreview/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Errors  map[string]string `json:"errors"`
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.mount().ServeHTTP(rr, req)
	return rr
}

// decodeData unwraps the {"data": ...} envelope into dst.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func (a *testApp) token(t *testing.T, id uuid.UUID, email string, role auth.Role) string {
	t.Helper()

	tok, err := a.authenticator.GenerateToken(id, email, role)
	require.NoError(t, err)
	return tok
}

func (a *testApp) seedUser(t *testing.T, email, password string) *users.User {
	t.Helper()

	u := &users.User{Username: "user", Email: email}
	require.NoError(t, u.Password.Set(password))
	require.NoError(t, a.store.Users.Create(t.Context(), u))
	return u
}

func (a *testApp) seedEvent(t *testing.T) *events.Event {
	t.Helper()

	e := &events.Event{Title: "Go Meetup", Description: "talks", Date: time.Now().Add(24 * time.Hour)}
	require.NoError(t, a.store.Events.Create(t.Context(), e))
	return e
}

func (a *testApp) seedOrganizer(t *testing.T, email string, validated bool, eventIDs ...uuid.UUID) *organizers.Organizer {
	t.Helper()

	o := &organizers.Organizer{Name: "Org", Email: email, Events: eventIDs}
	require.NoError(t, o.Password.Set("organizer-pass"))
	require.NoError(t, a.store.Organizers.Create(t.Context(), o))
	if validated {
		_, err := a.store.Organizers.SetValidated(t.Context(), o.ID, true)
		require.NoError(t, err)
		o.Validated = true
	}
	return o
}

func (a *testApp) seedAdmin(t *testing.T) *admins.Admin {
	t.Helper()

	ad := &admins.Admin{Email: "admin@example.com"}
	require.NoError(t, ad.Password.Set("admin-pass"))
	require.NoError(t, a.store.Admins.Upsert(t.Context(), ad))
	return ad
}

func (a *testApp) seedReview(t *testing.T, userID, eventID uuid.UUID) *reviews.Review {
	t.Helper()

	rv := &reviews.Review{
		UserID:  userID,
		EventID: eventID,
		Ratings: reviews.Ratings{
			RegistrationExperience: 4,
			EventExperience:        5,
			BreakfastExperience:    3,
			OverallRating:          4,
		},
		Content: "great event",
	}
	require.NoError(t, a.store.Reviews.Create(t.Context(), rv))
	return rv
}
