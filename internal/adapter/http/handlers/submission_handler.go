package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	request "cartcure_ops/internal/adapter/http/dto/request"
	response "cartcure_ops/internal/adapter/http/dto/response"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/ratelimit"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/usecase"
	"cartcure_ops/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidSubmissionPayload = pkg.NewDomainErrorSimple("INVALID_SUBMISSION_INPUT", "Invalid submission payload", http.StatusBadRequest)
)

// SubmissionHandler handles the public contact-form intake plus the operator
// review actions.
type SubmissionHandler struct {
	usecase usecase.ISubmissionUseCase
}

func NewSubmissionHandler(uc usecase.ISubmissionUseCase) *SubmissionHandler {
	return &SubmissionHandler{usecase: uc}
}

// Intake godoc
// @Summary      Submit a contact form
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submission  body  request.SubmissionRequest  true  "Contact form"
// @Success      201  {object}  response.SubmissionResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      429  {object}  pkg.HTTPError
// @Router       /submissions [post]
func (h *SubmissionHandler) Intake(c *gin.Context) {
	var payload request.SubmissionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSubmissionPayload.HTTPStatus, errInvalidSubmissionPayload.ToHTTPError())
		return
	}

	submission, err := h.usecase.Intake(c.Request.Context(), usecase.IntakeInput{
		SubmissionNumber: payload.SubmissionNumber,
		Name:             payload.Name,
		Email:            payload.Email,
		Phone:            payload.Phone,
		StoreURL:         payload.StoreURL,
		Message:          payload.Message,
		VoiceNote:        payload.VoiceNote,
	})
	if err != nil {
		var limitErr *ratelimit.LimitError
		if errors.As(err, &limitErr) {
			c.Header("Retry-After", strconv.Itoa(int(limitErr.RetryAfter.Seconds())))
		}
		appErr := mapSubmissionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromSubmission(submission))
}

// GetSubmission godoc
// @Summary      Fetch a submission by its number
// @Tags         submissions
// @Produce      json
// @Param        id   path      string  true  "Submission number"
// @Success      200  {object}  response.SubmissionResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submission, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapSubmissionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromSubmission(submission))
}

func (h *SubmissionHandler) ReviewSubmission(c *gin.Context) {
	h.patchSubmissionStatus(c, h.usecase.Review)
}

func (h *SubmissionHandler) DeclineSubmission(c *gin.Context) {
	h.patchSubmissionStatus(c, h.usecase.Decline)
}

func (h *SubmissionHandler) MarkSubmissionSpam(c *gin.Context) {
	h.patchSubmissionStatus(c, h.usecase.MarkSpam)
}

// CreateJob godoc
// @Summary      Promote a reviewed submission into a job
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id   path      string                    true  "Submission number"
// @Param        job  body      request.CreateJobRequest  true  "Job details"
// @Success      201  {object}  response.JobResponse
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /submissions/{id}/jobs [post]
func (h *SubmissionHandler) CreateJob(c *gin.Context) {
	var payload request.CreateJobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSubmissionPayload.HTTPStatus, errInvalidSubmissionPayload.ToHTTPError())
		return
	}

	job, err := h.usecase.CreateJob(c.Request.Context(), c.Param("id"), payload.ResolveCategory(), payload.Description)
	if err != nil {
		appErr := mapSubmissionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromJob(job))
}

func (h *SubmissionHandler) patchSubmissionStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Submission, error),
) {
	submission, err := updater(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapSubmissionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromSubmission(submission))
}

func mapSubmissionError(err error) *pkg.AppError {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return pkg.NewDomainErrorSimple("VALIDATION_FAILED", fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message), http.StatusBadRequest)
	case errors.Is(err, ratelimit.ErrRateLimitExceeded):
		return pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many submissions, try again later", http.StatusTooManyRequests)
	case errors.Is(err, usecase.ErrInvalidSubmissionID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrSubmissionAlreadyExists):
		return pkg.NewDomainErrorSimple("SUBMISSION_ALREADY_EXISTS", "Submission already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrSubmissionNotFound):
		return pkg.NewDomainErrorSimple("SUBMISSION_NOT_FOUND", "Submission not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrSubmissionNotReviewable):
		return pkg.NewDomainErrorSimple("SUBMISSION_NOT_REVIEWABLE", "Submission is not in a reviewable state", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
