package main

import (
	"net/http"
	"time"

	"eventreview/internal/domain/events"
)

type CreateEventPayload struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=5000"`
	Date        time.Time `json:"date" validate:"required"`
}

// getEventsHandler godoc
//
//	@Summary		List events
//	@Tags			events
//	@Produce		json
//	@Success		200	{array}		events.Event
//	@Failure		500	{object}	ErrorResponse
//	@Router			/events [get]
func (app *application) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Events.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createEventHandler godoc
//
//	@Summary		Create an event
//	@Description	Creates an event. Title, description and an RFC3339 date are required.
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateEventPayload	true	"Event details"
//	@Success		201		{object}	events.Event
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/events [post]
func (app *application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event := &events.Event{
		Title:       payload.Title,
		Description: payload.Description,
		Date:        payload.Date,
	}

	if err := app.store.Events.Create(r.Context(), event); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, event); err != nil {
		app.internalServerError(w, r, err)
	}
}
