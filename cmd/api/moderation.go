package main

import (
	"errors"
	"net/http"

	"eventreview/internal/domain/reviews"
	"eventreview/internal/mailer"
	"eventreview/internal/metrics"

	"github.com/google/uuid"
)

type ModerationPayload struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

// LikeResponse documents the like success body.
type LikeResponse struct {
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}

// ReportResponse documents the report success body.
type ReportResponse struct {
	Message string `json:"message"`
	Reports int    `json:"reports"`
	Flagged bool   `json:"flagged"`
}

// readModeration parses the review id and body shared by like and report and
// checks that the acting user exists.
func (app *application) readModeration(w http.ResponseWriter, r *http.Request) (reviewID, userID uuid.UUID, ok bool) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	var payload ModerationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	exists, err := app.store.Users.Exists(r.Context(), payload.UserID)
	if err != nil {
		app.internalServerError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	if !exists {
		app.notFoundResponse(w, r, errors.New("user not found"))
		return uuid.Nil, uuid.Nil, false
	}

	return reviewID, payload.UserID, true
}

func (app *application) duplicateModerationResponse(w http.ResponseWriter, r *http.Request, err error, message string) {
	app.logger.Warnw("duplicate moderation", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, message)
}

// likeReviewHandler godoc
//
//	@Summary		Like a review
//	@Description	Adds the user to the review's likes. A user can like a review once.
//	@Tags			moderation
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string				true	"Review ID"
//	@Param			payload		body		ModerationPayload	true	"Acting user"
//	@Success		200			{object}	LikeResponse
//	@Failure		400			{object}	ErrorResponse	"Invalid input or already liked"
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/reviews/{reviewID}/like [post]
func (app *application) likeReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, userID, ok := app.readModeration(w, r)
	if !ok {
		return
	}

	likes, err := app.store.Reviews.Like(r.Context(), reviewID, userID)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, reviews.ErrAlreadyLiked):
			metrics.ReviewLikes.WithLabelValues("duplicate").Inc()
			app.duplicateModerationResponse(w, r, err, "You have already liked this review")
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.ReviewLikes.WithLabelValues("accepted").Inc()

	response := LikeResponse{Message: "Review liked successfully", Likes: likes}
	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reportReviewHandler godoc
//
//	@Summary		Report a review
//	@Description	Adds the user to the review's reports. A user can report a review once. The review is flagged once it has more than five reports.
//	@Tags			moderation
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string				true	"Review ID"
//	@Param			payload		body		ModerationPayload	true	"Acting user"
//	@Success		200			{object}	ReportResponse
//	@Failure		400			{object}	ErrorResponse	"Invalid input or already reported"
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/reviews/{reviewID}/report [post]
func (app *application) reportReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, userID, ok := app.readModeration(w, r)
	if !ok {
		return
	}

	res, err := app.store.Reviews.Report(r.Context(), reviewID, userID)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, reviews.ErrAlreadyReported):
			metrics.ReviewReports.WithLabelValues("duplicate").Inc()
			app.duplicateModerationResponse(w, r, err, "You have already reported this review")
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.ReviewReports.WithLabelValues("accepted").Inc()

	if res.NewlyFlagged {
		metrics.ReviewsFlagged.Inc()
		app.logger.Infow("review flagged", "review_id", reviewID, "reports", res.Reports)
		app.notifyReviewFlagged(r, reviewID, res.Reports)
	}

	response := ReportResponse{
		Message: "Review reported successfully",
		Reports: res.Reports,
		Flagged: res.Flagged,
	}
	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyReviewFlagged e-mails the moderation address in the background.
func (app *application) notifyReviewFlagged(r *http.Request, reviewID uuid.UUID, reports int) {
	to := app.config.mail.moderationEmail
	if to == "" {
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		app.logger.Errorw("load flagged review", "review_id", reviewID, "error", err)
		return
	}

	vars := struct {
		Username string
		ReviewID string
		EventID  string
		Reports  int
	}{
		Username: "moderators",
		ReviewID: reviewID.String(),
		EventID:  review.EventID.String(),
		Reports:  reports,
	}

	app.background(func() {
		if err := app.mailer.Send(mailer.ReviewFlaggedTemplate, vars.Username, to, vars); err != nil {
			app.logger.Errorw("error sending review flagged email", "review_id", reviewID, "error", err)
		}
	})
}
