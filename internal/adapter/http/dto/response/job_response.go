package response

import (
	"time"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/usecase"
)

type JobResponse struct {
	ID             string     `json:"id"`
	SubmissionID   string     `json:"submission_id"`
	Category       string     `json:"category,omitempty"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	Amount         float64    `json:"amount"`
	Tax            float64    `json:"tax"`
	Total          float64    `json:"total"`
	TurnaroundDays int        `json:"turnaround_days"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	PaymentStatus  string     `json:"payment_status"`
	InvoiceIDs     []string   `json:"invoice_ids,omitempty"`
	Notes          []string   `json:"notes,omitempty"`
	SLAStatus      string     `json:"sla_status,omitempty"`
	DaysRemaining  *int       `json:"days_remaining,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func FromJob(j entities.Job) JobResponse {
	return JobResponse{
		ID:             j.ID,
		SubmissionID:   j.SubmissionID,
		Category:       j.Category,
		Description:    j.Description,
		Status:         string(j.Status),
		Amount:         j.Amount,
		Tax:            j.Tax,
		Total:          j.Total,
		TurnaroundDays: j.TurnaroundDays,
		AcceptedAt:     j.AcceptedAt,
		DueDate:        j.DueDate,
		StartedAt:      j.StartedAt,
		CompletedAt:    j.CompletedAt,
		PaymentStatus:  string(j.PaymentStatus),
		InvoiceIDs:     j.InvoiceIDs,
		Notes:          j.Notes,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// FromJobView layers the derived SLA fields over the stored snapshot.
func FromJobView(v usecase.JobView) JobResponse {
	resp := FromJob(v.Job)
	resp.SLAStatus = string(v.SLAStatus)
	resp.DaysRemaining = v.DaysRemaining
	return resp
}
