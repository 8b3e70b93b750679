package main

import (
	"net/http"
	"testing"

	"eventreview/internal/auth"
	"eventreview/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	app := newTestApplication(t)

	rr := app.do(t, http.MethodPost, "/v1/users", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter22")
	assert.NotContains(t, rr.Body.String(), "password")

	var created users.User
	decodeData(t, rr, &created)

	stored, err := app.store.Users.GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, []byte("hunter22"), stored.Password.Hash())
	assert.NoError(t, stored.Password.Compare("hunter22"))
}

func TestCreateUserValidation(t *testing.T) {
	app := newTestApplication(t)

	rr := app.do(t, http.MethodPost, "/v1/users", map[string]string{
		"username": "alice",
		"email":    "not-an-email",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	body := decodeError(t, rr)
	assert.False(t, body.Success)
	assert.Equal(t, "email", body.Errors["email"])
	assert.Equal(t, "required", body.Errors["password"])
	assert.Empty(t, app.mem.users)
}

func TestUserLogin(t *testing.T) {
	app := newTestApplication(t)
	user := app.seedUser(t, "bob@example.com", "correct-horse")

	tests := []struct {
		name     string
		password string
		status   int
	}{
		{"valid credentials", "correct-horse", http.StatusOK},
		{"wrong password", "wrong", http.StatusUnauthorized},
		{"short wrong password", "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, http.MethodPost, "/v1/userlogin", map[string]string{
				"email":    "bob@example.com",
				"password": tt.password,
			}, "")
			require.Equal(t, tt.status, rr.Code)

			if tt.status != http.StatusOK {
				assert.NotContains(t, rr.Body.String(), "token")
				assert.Equal(t, "invalid email or password", decodeError(t, rr).Message)
				return
			}

			var resp UserTokenResponse
			decodeData(t, rr, &resp)
			assert.Equal(t, user.ID.String(), resp.UserID)

			claims, err := app.authenticator.ValidateToken(resp.Token)
			require.NoError(t, err)
			subject, err := claims.SubjectID()
			require.NoError(t, err)
			assert.Equal(t, user.ID, subject)
			assert.Equal(t, auth.RoleUser, claims.Role)
		})
	}
}

func TestUserLoginUnknownEmail(t *testing.T) {
	app := newTestApplication(t)

	rr := app.do(t, http.MethodPost, "/v1/userlogin", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUsersRequiresToken(t *testing.T) {
	app := newTestApplication(t)
	user := app.seedUser(t, "carol@example.com", "pass123")
	admin := app.seedAdmin(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"user token", app.token(t, user.ID, user.Email, auth.RoleUser), http.StatusOK},
		{"admin token", app.token(t, admin.ID, admin.Email, auth.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, http.MethodGet, "/v1/users", nil, tt.token)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestTokenForDeletedPrincipalIsRejected(t *testing.T) {
	app := newTestApplication(t)
	user := app.seedUser(t, "dave@example.com", "pass123")
	tok := app.token(t, user.ID, user.Email, auth.RoleUser)

	delete(app.mem.users, user.ID)

	rr := app.do(t, http.MethodGet, "/v1/users", nil, tok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
