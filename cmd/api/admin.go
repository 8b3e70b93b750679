package main

import (
	"errors"
	"net/http"

	"eventreview/internal/domain/organizers"
	"eventreview/internal/mailer"
)

// validateOrganizerHandler godoc
//
//	@Summary		Validate an organizer
//	@Description	Approves the organizer so it can use organizer routes. The organizer is notified by email.
//	@Tags			admin
//	@Produce		json
//	@Param			organizerID	path		string	true	"Organizer ID"
//	@Success		200			{object}	organizers.Organizer
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/organizers/{organizerID}/validate [post]
func (app *application) validateOrganizerHandler(w http.ResponseWriter, r *http.Request) {
	app.setOrganizerValidation(w, r, true)
}

// revokeOrganizerHandler godoc
//
//	@Summary		Revoke an organizer
//	@Description	Withdraws the organizer's approval. Tokens it already holds stop working on organizer routes.
//	@Tags			admin
//	@Produce		json
//	@Param			organizerID	path		string	true	"Organizer ID"
//	@Success		200			{object}	organizers.Organizer
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/organizers/{organizerID}/revoke [post]
func (app *application) revokeOrganizerHandler(w http.ResponseWriter, r *http.Request) {
	app.setOrganizerValidation(w, r, false)
}

func (app *application) setOrganizerValidation(w http.ResponseWriter, r *http.Request, validated bool) {
	organizerID, err := uuidParam(r, "organizerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	organizer, err := app.store.Organizers.SetValidated(r.Context(), organizerID, validated)
	if err != nil {
		switch {
		case errors.Is(err, organizers.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("organizer not found"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	admin := getPrincipalFromContext(r)
	app.logger.Infow("organizer validation changed",
		"organizer_id", organizer.ID,
		"validated", validated,
		"admin_id", admin.ID,
	)

	vars := struct {
		Username  string
		Validated bool
	}{
		Username:  organizer.Name,
		Validated: validated,
	}

	app.background(func() {
		if err := app.mailer.Send(mailer.OrganizerStatusTemplate, organizer.Name, organizer.Email, vars); err != nil {
			app.logger.Errorw("error sending organizer status email", "organizer_id", organizer.ID, "error", err)
		}
	})

	if err := app.jsonResponse(w, http.StatusOK, organizer); err != nil {
		app.internalServerError(w, r, err)
	}
}
