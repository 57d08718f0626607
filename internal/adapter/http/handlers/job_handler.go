package handlers

import (
	"context"
	"errors"
	"net/http"

	request "cartcure_ops/internal/adapter/http/dto/request"
	response "cartcure_ops/internal/adapter/http/dto/response"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/usecase"
	"cartcure_ops/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidJobPayload = pkg.NewDomainErrorSimple("INVALID_JOB_INPUT", "Invalid job payload", http.StatusBadRequest)
)

// JobHandler handles the job workflow actions: quoting, acceptance, progress
// and the terminal states.
type JobHandler struct {
	usecase usecase.IJobUseCase
}

func NewJobHandler(uc usecase.IJobUseCase) *JobHandler {
	return &JobHandler{usecase: uc}
}

// GetJob godoc
// @Summary      Fetch a job with its derived SLA fields
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job number"
// @Success      200  {object}  response.JobResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	view, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJobView(view))
}

// PrepareQuote godoc
// @Summary      Attach a quote to a pending job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id     path      string                true  "Job number"
// @Param        quote  body      request.QuoteRequest  true  "Quote"
// @Success      200  {object}  response.JobResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /jobs/{id}/quote [post]
func (h *JobHandler) PrepareQuote(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidJobPayload.HTTPStatus, errInvalidJobPayload.ToHTTPError())
		return
	}

	amount, err := payload.ResolveAmount()
	if err != nil {
		c.JSON(errInvalidJobPayload.HTTPStatus, errInvalidJobPayload.ToHTTPError())
		return
	}

	job, err := h.usecase.PrepareQuote(c.Request.Context(), c.Param("id"), amount, payload.TurnaroundDays)
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromJob(job))
}

func (h *JobHandler) AcceptQuote(c *gin.Context) {
	h.patchJobStatus(c, h.usecase.AcceptQuote)
}

func (h *JobHandler) StartJob(c *gin.Context) {
	h.patchJobStatus(c, h.usecase.Start)
}

func (h *JobHandler) ResumeJob(c *gin.Context) {
	h.patchJobStatus(c, h.usecase.Resume)
}

func (h *JobHandler) CompleteJob(c *gin.Context) {
	h.patchJobStatus(c, h.usecase.Complete)
}

func (h *JobHandler) DeclineQuote(c *gin.Context) {
	h.patchJobStatusWithReason(c, h.usecase.DeclineQuote)
}

func (h *JobHandler) HoldJob(c *gin.Context) {
	h.patchJobStatusWithReason(c, h.usecase.Hold)
}

func (h *JobHandler) CancelJob(c *gin.Context) {
	h.patchJobStatusWithReason(c, h.usecase.Cancel)
}

func (h *JobHandler) patchJobStatus(
	c *gin.Context,
	updater func(ctx context.Context, jobID string) (entities.Job, error),
) {
	job, err := updater(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

func (h *JobHandler) patchJobStatusWithReason(
	c *gin.Context,
	updater func(ctx context.Context, jobID, reason string) (entities.Job, error),
) {
	// Reason is optional; an empty body is fine.
	var payload request.ReasonRequest
	_ = c.ShouldBindJSON(&payload)

	job, err := updater(c.Request.Context(), c.Param("id"), payload.Reason)
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

func mapJobError(err error) *pkg.AppError {
	var transitionErr *workflow.InvalidTransitionError
	switch {
	case errors.Is(err, usecase.ErrInvalidJobID), errors.Is(err, usecase.ErrInvalidQuoteVal):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	case errors.As(err, &transitionErr):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", transitionErr.Error(), http.StatusConflict)
	case errors.Is(err, workflow.ErrInvalidStateTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Job is not in a state that allows this action", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
