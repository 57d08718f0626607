package response

import (
	"time"

	"cartcure_ops/internal/domain/entities"
)

type TestimonialResponse struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Name      string    `json:"name"`
	Business  string    `json:"business,omitempty"`
	Location  string    `json:"location,omitempty"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromTestimonial(t entities.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:        t.ID,
		JobID:     t.JobID,
		Name:      t.Name,
		Business:  t.Business,
		Location:  t.Location,
		Rating:    t.Rating,
		Body:      t.Body,
		Approved:  t.Approved,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTestimonials(testimonials []entities.Testimonial) []TestimonialResponse {
	out := make([]TestimonialResponse, 0, len(testimonials))
	for _, t := range testimonials {
		out = append(out, FromTestimonial(t))
	}
	return out
}
