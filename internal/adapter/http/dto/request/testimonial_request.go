package request

// TestimonialRequest is the public review form for a completed job.
type TestimonialRequest struct {
	JobID    string `json:"job_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Business string `json:"business"`
	Location string `json:"location"`
	Rating   int    `json:"rating" binding:"required"`
	Body     string `json:"body" binding:"required"`
}
