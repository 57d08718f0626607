package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	request "cartcure_ops/internal/adapter/http/dto/request"
	response "cartcure_ops/internal/adapter/http/dto/response"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/usecase"
	"cartcure_ops/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidTestimonialPayload = pkg.NewDomainErrorSimple("INVALID_TESTIMONIAL_INPUT", "Invalid testimonial payload", http.StatusBadRequest)
)

// TestimonialHandler handles review collection and moderation.
type TestimonialHandler struct {
	usecase usecase.ITestimonialUseCase
}

func NewTestimonialHandler(uc usecase.ITestimonialUseCase) *TestimonialHandler {
	return &TestimonialHandler{usecase: uc}
}

// Submit godoc
// @Summary      Submit a testimonial for a completed job
// @Tags         testimonials
// @Accept       json
// @Produce      json
// @Param        testimonial  body  request.TestimonialRequest  true  "Review"
// @Success      201  {object}  response.TestimonialResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /testimonials [post]
func (h *TestimonialHandler) Submit(c *gin.Context) {
	var payload request.TestimonialRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidTestimonialPayload.HTTPStatus, errInvalidTestimonialPayload.ToHTTPError())
		return
	}

	testimonial, err := h.usecase.Submit(c.Request.Context(), usecase.TestimonialInput{
		JobID:    payload.JobID,
		Name:     payload.Name,
		Business: payload.Business,
		Location: payload.Location,
		Rating:   payload.Rating,
		Body:     payload.Body,
	})
	if err != nil {
		appErr := mapTestimonialError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromTestimonial(testimonial))
}

func (h *TestimonialHandler) Approve(c *gin.Context) {
	testimonial, err := h.usecase.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapTestimonialError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromTestimonial(testimonial))
}

// ListApproved godoc
// @Summary      List approved testimonials
// @Tags         testimonials
// @Produce      json
// @Param        min_rating  query     int  false  "Minimum rating (1-5)"
// @Param        limit       query     int  false  "Maximum results"
// @Success      200  {array}  response.TestimonialResponse
// @Router       /testimonials [get]
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	minRating, _ := strconv.Atoi(c.DefaultQuery("min_rating", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	testimonials, err := h.usecase.ListApproved(c.Request.Context(), minRating, limit)
	if err != nil {
		appErr := mapTestimonialError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromTestimonials(testimonials))
}

func mapTestimonialError(err error) *pkg.AppError {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return pkg.NewDomainErrorSimple("VALIDATION_FAILED", fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidTestimonial), errors.Is(err, usecase.ErrInvalidJobID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTestimonialExists):
		return pkg.NewDomainErrorSimple("TESTIMONIAL_ALREADY_EXISTS", "A testimonial already exists for this job", http.StatusConflict)
	case errors.Is(err, usecase.ErrTestimonialNotFound):
		return pkg.NewDomainErrorSimple("TESTIMONIAL_NOT_FOUND", "Testimonial not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
