package response

import (
	"time"

	"cartcure_ops/internal/domain/entities"
)

type InvoiceResponse struct {
	ID            string     `json:"id"`
	JobID         string     `json:"job_id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaymentRef    string     `json:"payment_ref,omitempty"`
	LateFee       float64    `json:"late_fee"`
	TotalWithFees float64    `json:"total_with_fees"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromInvoice(i entities.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		JobID:         i.JobID,
		Type:          string(i.Type),
		Status:        string(i.Status),
		Amount:        i.Amount,
		Tax:           i.Tax,
		Total:         i.Total,
		DueDate:       i.DueDate,
		SentAt:        i.SentAt,
		PaidAt:        i.PaidAt,
		PaymentMethod: i.PaymentMethod,
		PaymentRef:    i.PaymentRef,
		LateFee:       i.LateFee,
		TotalWithFees: i.TotalWithFees,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func FromInvoices(invoices []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, FromInvoice(i))
	}
	return out
}
