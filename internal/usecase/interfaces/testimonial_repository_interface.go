package interfaces

import (
	"context"

	"cartcure_ops/internal/domain/entities"
)

// ITestimonialRepository abstracts DynamoDB persistence for Testimonial.
//
// Create must be insert-if-absent on the job id so duplicate submissions for
// the same job are rejected at the store, not by a scan-then-append race.

type ITestimonialRepository interface {
	Create(ctx context.Context, t entities.Testimonial) (entities.Testimonial, error)
	GetByID(ctx context.Context, id string) (entities.Testimonial, error)
	SetApproved(ctx context.Context, id string, approved bool) (entities.Testimonial, error)
	ListApproved(ctx context.Context, minRating, limit int) ([]entities.Testimonial, error)
}
