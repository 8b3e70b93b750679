package main

import (
	"errors"
	"fmt"
	"net/http"

	"eventreview/internal/auth"
	"eventreview/internal/domain/organizers"

	"github.com/google/uuid"
)

type CreateOrganizerPayload struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=3,max=72"`
	Events   []uuid.UUID `json:"events" validate:"omitempty,dive,required"`
}

// getOrganizersHandler godoc
//
//	@Summary		List organizers
//	@Tags			organizers
//	@Produce		json
//	@Success		200	{array}		organizers.Organizer
//	@Failure		500	{object}	ErrorResponse
//	@Router			/organizers [get]
func (app *application) getOrganizersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Organizers.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createOrganizerHandler godoc
//
//	@Summary		Register an organizer
//	@Description	Creates an organizer linked to the given events. The account must be validated by an admin before it can use organizer routes.
//	@Tags			organizers
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateOrganizerPayload	true	"Organizer details"
//	@Success		201		{object}	organizers.Organizer
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/organizers [post]
func (app *application) createOrganizerHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOrganizerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	organizer := &organizers.Organizer{
		Name:   payload.Name,
		Email:  payload.Email,
		Events: payload.Events,
	}
	if err := organizer.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Organizers.Create(r.Context(), organizer); err != nil {
		switch {
		case errors.Is(err, organizers.ErrDuplicateEmail):
			app.conflictResponse(w, r, err)
		case errors.Is(err, organizers.ErrEventNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, organizer); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrganizerReviewsHandler godoc
//
//	@Summary		Reviews of an organizer's events
//	@Description	Lists reviews of every event linked to the organizer. Organizers can only read their own list; admins can read any.
//	@Tags			organizers
//	@Produce		json
//	@Param			organizerID	path		string	true	"Organizer ID"
//	@Success		200			{array}		reviews.Review
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/organizers/{organizerID}/reviews [get]
func (app *application) getOrganizerReviewsHandler(w http.ResponseWriter, r *http.Request) {
	organizerID, err := uuidParam(r, "organizerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := getPrincipalFromContext(r)
	switch p.Role {
	case auth.RoleOrganizer:
		if p.ID != organizerID {
			app.forbiddenResponse(w, r, fmt.Errorf("organizer %s cannot read reviews of organizer %s", p.ID, organizerID))
			return
		}
	case auth.RoleAdmin:
		if _, err := app.store.Organizers.GetByID(r.Context(), organizerID); err != nil {
			switch {
			case errors.Is(err, organizers.ErrNotFound):
				app.notFoundResponse(w, r, errors.New("organizer not found"))
			default:
				app.internalServerError(w, r, err)
			}
			return
		}
	}

	list, err := app.store.Reviews.ListByOrganizer(r.Context(), organizerID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
