package main

import (
	"errors"
	"net/http"

	"eventreview/internal/auth"
	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/users"
	"eventreview/internal/metrics"
)

type CreateTokenPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserTokenResponse documents the /userlogin success body.
type UserTokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// OrganizerTokenResponse documents the /organizerlogin success body.
type OrganizerTokenResponse struct {
	Token       string `json:"token"`
	OrganizerID string `json:"organizerId"`
}

// AdminTokenResponse documents the /adminlogin success body.
type AdminTokenResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

func (app *application) readTokenPayload(w http.ResponseWriter, r *http.Request) (*CreateTokenPayload, bool) {
	var payload CreateTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return nil, false
	}
	return &payload, true
}

// createUserTokenHandler godoc
//
//	@Summary		User login
//	@Description	Exchanges email and password for a token valid for one hour.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTokenPayload	true	"User credentials"
//	@Success		200		{object}	UserTokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/userlogin [post]
func (app *application) createUserTokenHandler(w http.ResponseWriter, r *http.Request) {
	payload, ok := app.readTokenPayload(w, r)
	if !ok {
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			app.invalidCredentialsResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		metrics.AuthFailures.WithLabelValues("wrong_password").Inc()
		app.invalidCredentialsResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID, user.Email, auth.RoleUser)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := UserTokenResponse{Token: token, UserID: user.ID.String()}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createOrganizerTokenHandler godoc
//
//	@Summary		Organizer login
//	@Description	Exchanges organizer email and password for a token valid for one hour. Unvalidated organizers can log in but cannot use organizer routes.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTokenPayload	true	"Organizer credentials"
//	@Success		200		{object}	OrganizerTokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/organizerlogin [post]
func (app *application) createOrganizerTokenHandler(w http.ResponseWriter, r *http.Request) {
	payload, ok := app.readTokenPayload(w, r)
	if !ok {
		return
	}

	organizer, err := app.store.Organizers.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, organizers.ErrNotFound):
			metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			app.invalidCredentialsResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := organizer.Password.Compare(payload.Password); err != nil {
		metrics.AuthFailures.WithLabelValues("wrong_password").Inc()
		app.invalidCredentialsResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(organizer.ID, organizer.Email, auth.RoleOrganizer)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := OrganizerTokenResponse{Token: token, OrganizerID: organizer.ID.String()}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createAdminTokenHandler godoc
//
//	@Summary		Admin login
//	@Description	Exchanges admin email and password for a token valid for one hour.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTokenPayload	true	"Admin credentials"
//	@Success		200		{object}	AdminTokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/adminlogin [post]
func (app *application) createAdminTokenHandler(w http.ResponseWriter, r *http.Request) {
	payload, ok := app.readTokenPayload(w, r)
	if !ok {
		return
	}

	admin, err := app.store.Admins.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, admins.ErrNotFound):
			metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			app.invalidCredentialsResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := admin.Password.Compare(payload.Password); err != nil {
		metrics.AuthFailures.WithLabelValues("wrong_password").Inc()
		app.invalidCredentialsResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(admin.ID, admin.Email, auth.RoleAdmin)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := AdminTokenResponse{Token: token, AdminID: admin.ID.String()}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
