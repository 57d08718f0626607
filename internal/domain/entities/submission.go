package entities

import "time"

// SubmissionStatus represents the review lifecycle of a contact-form
// submission.
//
// Domain notes:
//   - Submissions are never deleted; Declined/Spam are soft terminal states.
//   - JobCreated is set when an operator promotes the submission to a Job.

type SubmissionStatus string

const (
	SubmissionStatusNew        SubmissionStatus = "new"
	SubmissionStatusInReview   SubmissionStatus = "in_review"
	SubmissionStatusJobCreated SubmissionStatus = "job_created"
	SubmissionStatusDeclined   SubmissionStatus = "declined"
	SubmissionStatusSpam       SubmissionStatus = "spam"
)

// submissionTransitions lists the legal review-state moves. JobCreated,
// Declined and Spam are terminal.
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionStatusNew:      {SubmissionStatusInReview, SubmissionStatusDeclined, SubmissionStatusSpam},
	SubmissionStatusInReview: {SubmissionStatusJobCreated, SubmissionStatusDeclined, SubmissionStatusSpam},
}

// CanTransitionTo reports whether moving the submission to target is legal.
func (s SubmissionStatus) CanTransitionTo(target SubmissionStatus) bool {
	for _, t := range submissionTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Submission is an inbound contact-form record, the precursor to a Job.
//
// Storage model (DynamoDB):
//   - PK: id (the human-readable submission number, e.g. CC-MAPLE-042)
//
// All free-text fields are stored already sanitized; raw form input never
// reaches this struct.
type Submission struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	StoreURL     string           `json:"store_url,omitempty"`
	Message      string           `json:"message,omitempty"`
	VoiceNoteRef string           `json:"voice_note_ref,omitempty"`
	Status       SubmissionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
