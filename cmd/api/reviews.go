package main

import (
	"errors"
	"net/http"

	"eventreview/internal/domain/events"
	"eventreview/internal/domain/reviews"
	"eventreview/internal/metrics"

	"github.com/google/uuid"
)

type CreateReviewPayload struct {
	UserID  uuid.UUID       `json:"user_id" validate:"required"`
	Ratings reviews.Ratings `json:"ratings" validate:"required"`
	Content string          `json:"content" validate:"max=5000"`
}

// getEventReviewsHandler godoc
//
//	@Summary		List reviews of an event
//	@Description	Lists the event's reviews, newest first, with the organizer response and its organizer populated.
//	@Tags			reviews
//	@Produce		json
//	@Param			eventID	path		string	true	"Event ID"
//	@Success		200		{array}		reviews.Review
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/events/{eventID}/reviews [get]
func (app *application) getEventReviewsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuidParam(r, "eventID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.Reviews.ListByEvent(r.Context(), eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createEventReviewHandler godoc
//
//	@Summary		Review an event
//	@Description	Creates a review of the event. Every rating is an integer from 1 to 5.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		string				true	"Event ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/events/{eventID}/reviews [post]
func (app *application) createEventReviewHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuidParam(r, "eventID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	ctx := r.Context()

	if _, err := app.store.Events.GetByID(ctx, eventID); err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("event not found"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review := &reviews.Review{
		UserID:  payload.UserID,
		EventID: eventID,
		Ratings: payload.Ratings,
		Content: payload.Content,
	}

	if err := app.store.Reviews.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, reviews.ErrReferenceNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.ReviewsCreated.Inc()

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}
