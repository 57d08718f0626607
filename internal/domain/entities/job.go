package entities

import "time"

// JobStatus represents the delivery lifecycle of a job.

type JobStatus string

const (
	JobStatusPendingQuote JobStatus = "pending_quote"
	JobStatusQuoted       JobStatus = "quoted"
	JobStatusAccepted     JobStatus = "accepted"
	JobStatusInProgress   JobStatus = "in_progress"
	JobStatusCompleted    JobStatus = "completed"
	JobStatusOnHold       JobStatus = "on_hold"
	JobStatusCancelled    JobStatus = "cancelled"
	JobStatusDeclined     JobStatus = "declined"
)

// PaymentStatus tracks how much of the job's money has actually arrived.

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusInvoiced PaymentStatus = "invoiced"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// jobTransitions is the single source of truth for legal job-status moves.
// Completed, Cancelled and Declined are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPendingQuote: {JobStatusQuoted},
	JobStatusQuoted:       {JobStatusAccepted, JobStatusDeclined},
	JobStatusAccepted:     {JobStatusInProgress, JobStatusOnHold, JobStatusCancelled},
	JobStatusInProgress:   {JobStatusCompleted, JobStatusOnHold, JobStatusCancelled},
	JobStatusOnHold:       {JobStatusInProgress, JobStatusCancelled},
}

// CanTransitionTo reports whether moving the job to target is legal.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, t := range jobTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return len(jobTransitions[s]) == 0
}

// Job is a unit of paid work created from a Submission.
//
// Storage model (DynamoDB):
//   - PK: id (mirrors the submission number, e.g. J-MAPLE-042)
//   - GSI1 (submission_id-index): submission_id
//
// Monetary invariant: Total is always Amount + Tax, recomputed on every
// quote write; the stored value is never trusted over the recomputation.
// SLA invariant: DueDate is fixed at acceptance from TurnaroundDays and is
// never silently recomputed afterwards.
type Job struct {
	ID             string        `json:"id"`
	SubmissionID   string        `json:"submission_id"`
	Category       string        `json:"category,omitempty"`
	Description    string        `json:"description,omitempty"`
	Status         JobStatus     `json:"status"`
	Amount         float64       `json:"amount"`
	Tax            float64       `json:"tax"`
	Total          float64       `json:"total"`
	TurnaroundDays int           `json:"turnaround_days"`
	AcceptedAt     *time.Time    `json:"accepted_at,omitempty"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	InvoiceIDs     []string      `json:"invoice_ids,omitempty"`
	Notes          []string      `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
