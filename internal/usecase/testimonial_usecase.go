package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/usecase/interfaces"
)

var (
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrTestimonialExists   = errors.New("testimonial already exists for this job")
	ErrInvalidTestimonial  = errors.New("invalid testimonial")
)

const maxTestimonialLength = 2000

// TestimonialInput is the raw review form.
type TestimonialInput struct {
	JobID    string
	Name     string
	Business string
	Location string
	Rating   int
	Body     string
}

// ITestimonialUseCase exposes testimonial collection and moderation.

type ITestimonialUseCase interface {
	Submit(ctx context.Context, in TestimonialInput) (entities.Testimonial, error)
	Approve(ctx context.Context, id string) (entities.Testimonial, error)
	ListApproved(ctx context.Context, minRating, limit int) ([]entities.Testimonial, error)
}

type TestimonialUseCase struct {
	repo     interfaces.ITestimonialRepository
	jobRepo  interfaces.IJobRepository
	settings config.Settings
}

var _ ITestimonialUseCase = (*TestimonialUseCase)(nil)

func NewTestimonialUseCase(repo interfaces.ITestimonialRepository, jobRepo interfaces.IJobRepository, settings config.Settings) *TestimonialUseCase {
	return &TestimonialUseCase{repo: repo, jobRepo: jobRepo, settings: settings}
}

// Submit validates and stores one testimonial. The rating is clamped to the
// 1-5 band rather than rejected; the one-per-job rule is enforced by the
// repository's conditional create, so concurrent duplicates cannot race past
// a scan-then-insert check.
func (u *TestimonialUseCase) Submit(ctx context.Context, in TestimonialInput) (entities.Testimonial, error) {
	jobID := strings.TrimSpace(in.JobID)
	if jobID == "" {
		return entities.Testimonial{}, ErrInvalidJobID
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return entities.Testimonial{}, err
	}
	if job.ID == "" {
		return entities.Testimonial{}, ErrJobNotFound
	}

	name, err := validation.Text(in.Name, "name", u.settings.MaxNameLength, true)
	if err != nil {
		return entities.Testimonial{}, err
	}
	body, err := validation.Text(in.Body, "testimonial", maxTestimonialLength, true)
	if err != nil {
		return entities.Testimonial{}, err
	}
	business, err := validation.Text(in.Business, "business", u.settings.MaxNameLength, false)
	if err != nil {
		return entities.Testimonial{}, err
	}
	location, err := validation.Text(in.Location, "location", u.settings.MaxNameLength, false)
	if err != nil {
		return entities.Testimonial{}, err
	}

	now := time.Now().UTC()
	t := entities.Testimonial{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		Name:      name,
		Business:  business,
		Location:  location,
		Rating:    entities.ClampRating(in.Rating),
		Body:      body,
		Approved:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := u.repo.Create(ctx, t)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return entities.Testimonial{}, fmt.Errorf("job %s: %w", job.ID, ErrTestimonialExists)
		}
		return entities.Testimonial{}, err
	}
	return created, nil
}

// Approve flips the moderation flag; only approved testimonials are served
// publicly.
func (u *TestimonialUseCase) Approve(ctx context.Context, id string) (entities.Testimonial, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Testimonial{}, ErrInvalidTestimonial
	}

	updated, err := u.repo.SetApproved(ctx, id, true)
	if err != nil {
		return entities.Testimonial{}, err
	}
	if updated.ID == "" {
		return entities.Testimonial{}, ErrTestimonialNotFound
	}
	return updated, nil
}

func (u *TestimonialUseCase) ListApproved(ctx context.Context, minRating, limit int) ([]entities.Testimonial, error) {
	if minRating < 1 {
		minRating = 1
	}
	if minRating > 5 {
		minRating = 5
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return u.repo.ListApproved(ctx, minRating, limit)
}
