package main

import (
	"errors"
	"net/http"

	"eventreview/internal/domain/responses"
	"eventreview/internal/metrics"

	"github.com/google/uuid"
)

type CreateResponsePayload struct {
	Content     string     `json:"content" validate:"required,max=5000"`
	OrganizerID *uuid.UUID `json:"organizer_id,omitempty"`
}

type OrganizerResponsePayload struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// getReviewResponsesHandler godoc
//
//	@Summary		List responses to a review
//	@Tags			responses
//	@Produce		json
//	@Param			reviewID	path		string	true	"Review ID"
//	@Success		200			{array}		responses.Response
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/reviews/{reviewID}/responses [get]
func (app *application) getReviewResponsesHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.Responses.ListByReview(r.Context(), reviewID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createReviewResponseHandler godoc
//
//	@Summary		Add a response to a review
//	@Description	Stores a response record for the review. It is not attached as the review's organizer response; use POST /reviews/{reviewID}/response for that.
//	@Tags			responses
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string					true	"Review ID"
//	@Param			payload		body		CreateResponsePayload	true	"Response"
//	@Success		201			{object}	responses.Response
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/reviews/{reviewID}/responses [post]
func (app *application) createReviewResponseHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateResponsePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	resp := &responses.Response{
		ReviewID:    reviewID,
		OrganizerID: payload.OrganizerID,
		Content:     payload.Content,
	}

	if err := app.store.Responses.Create(r.Context(), resp); err != nil {
		switch {
		case errors.Is(err, responses.ErrReferenceNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createOrganizerResponseHandler godoc
//
//	@Summary		Respond to a review as its organizer
//	@Description	Creates a response by the authenticated organizer and attaches it to the review. Both writes commit together. A review can only be answered once.
//	@Tags			responses
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string						true	"Review ID"
//	@Param			payload		body		OrganizerResponsePayload	true	"Response"
//	@Success		201			{object}	responses.Response
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID}/response [post]
func (app *application) createOrganizerResponseHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload OrganizerResponsePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	organizer := getPrincipalFromContext(r)
	resp := &responses.Response{
		ReviewID:    reviewID,
		OrganizerID: &organizer.ID,
		Content:     payload.Content,
	}

	if err := app.store.Responses.CreateForReview(r.Context(), resp); err != nil {
		switch {
		case errors.Is(err, responses.ErrReviewNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, responses.ErrAlreadyResponded):
			app.conflictResponse(w, r, err)
		case errors.Is(err, responses.ErrReferenceNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.OrganizerResponses.Inc()

	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
