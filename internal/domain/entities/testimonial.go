package entities

import "time"

// Testimonial is a customer review collected after a job completes.
//
// Storage model (DynamoDB):
//   - PK: job_id, which makes one-testimonial-per-job a write condition
//   - GSI1 (id-index): id (uuid), for direct lookups
//
// Approved defaults to false; testimonials are only served publicly after an
// explicit operator approval.
type Testimonial struct {
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

// ClampRating forces a rating into the 1..5 band instead of rejecting it.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
