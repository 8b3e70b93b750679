package main

import (
	"net/http"
	"testing"

	"eventreview/internal/auth"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminValidatesAndRevokesOrganizer(t *testing.T) {
	app := newTestApplication(t)
	user := app.seedUser(t, "u@example.com", "pass123")
	event := app.seedEvent(t)
	org := app.seedOrganizer(t, "org@example.com", false, event.ID)
	admin := app.seedAdmin(t)
	adminToken := app.token(t, admin.ID, admin.Email, auth.RoleAdmin)
	orgToken := app.token(t, org.ID, org.Email, auth.RoleOrganizer)
	ownReviews := "/v1/organizers/" + org.ID.String() + "/reviews"

	rr := app.do(t, http.MethodGet, ownReviews, nil, orgToken)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = app.do(t, http.MethodPost, "/v1/admin/organizers/"+org.ID.String()+"/validate", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated organizers.Organizer
	decodeData(t, rr, &updated)
	assert.True(t, updated.Validated)

	// the same token works now that the account is validated
	rr = app.do(t, http.MethodGet, ownReviews, nil, orgToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(t, http.MethodPost, "/v1/admin/organizers/"+org.ID.String()+"/revoke", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &updated)
	assert.False(t, updated.Validated)

	review := app.seedReview(t, user.ID, event.ID)
	rr = app.do(t, http.MethodPost, "/v1/reviews/"+review.ID.String()+"/response", map[string]string{"content": "hi"}, orgToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	app.wg.Wait()
	sent := app.mail.messages()
	require.Len(t, sent, 2)
	for _, m := range sent {
		assert.Equal(t, mailer.OrganizerStatusTemplate, m.template)
		assert.Equal(t, org.Email, m.email)
	}
}

func TestAdminRoutesRejectOtherRoles(t *testing.T) {
	app := newTestApplication(t)
	user := app.seedUser(t, "u@example.com", "pass123")
	org := app.seedOrganizer(t, "org@example.com", true)
	admin := app.seedAdmin(t)
	path := "/v1/admin/organizers/" + org.ID.String() + "/validate"

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", path, "", http.StatusUnauthorized},
		{"user token", path, app.token(t, user.ID, user.Email, auth.RoleUser), http.StatusForbidden},
		{"organizer token", path, app.token(t, org.ID, org.Email, auth.RoleOrganizer), http.StatusForbidden},
		{"unknown organizer", "/v1/admin/organizers/" + uuid.NewString() + "/validate", app.token(t, admin.ID, admin.Email, auth.RoleAdmin), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, http.MethodPost, tt.path, nil, tt.token)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestAdminLoginAndBootstrap(t *testing.T) {
	app := newTestApplication(t)
	app.config.bootstrap = adminBootstrapConfig{email: "root@example.com", password: "first"}
	require.NoError(t, app.bootstrapAdmin(t.Context()))

	// a second boot with a new password resets the same account
	app.config.bootstrap.password = "second"
	require.NoError(t, app.bootstrapAdmin(t.Context()))
	assert.Len(t, app.mem.admins, 1)

	rr := app.do(t, http.MethodPost, "/v1/adminlogin", map[string]string{"email": "root@example.com", "password": "first"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = app.do(t, http.MethodPost, "/v1/adminlogin", map[string]string{"email": "root@example.com", "password": "second"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp AdminTokenResponse
	decodeData(t, rr, &resp)
	assert.NotEmpty(t, resp.Token)
}
