package request

import "strings"

// SubmissionRequest is the public contact-form payload. Every field is raw
// untrusted input; the use case runs the validator over all of it, so the
// binding tags only enforce presence.
type SubmissionRequest struct {
	SubmissionNumber string `json:"submission_number"`
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Phone            string `json:"phone"`
	StoreURL         string `json:"store_url"`
	Message          string `json:"message"`
	VoiceNote        string `json:"voice_note"`
}

// CreateJobRequest promotes a reviewed submission into a job.
type CreateJobRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (r CreateJobRequest) ResolveCategory() string {
	return strings.TrimSpace(r.Category)
}
