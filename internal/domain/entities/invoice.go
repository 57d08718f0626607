package entities

import "time"

// InvoiceStatus represents the billing lifecycle of an invoice.
//
// Sent -> Overdue is a time-driven reclassification, not an operator action;
// everything else is moved by an explicit workflow call.

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceType distinguishes the split-payment halves from plain invoices.

type InvoiceType string

const (
	InvoiceTypeFull       InvoiceType = "full"
	InvoiceTypeDeposit    InvoiceType = "deposit"
	InvoiceTypeBalance    InvoiceType = "balance"
	InvoiceTypeAdditional InvoiceType = "additional"
)

// invoiceTransitions is the single source of truth for legal invoice-status
// moves. Paid and Cancelled are terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusCancelled},
}

// CanTransitionTo reports whether moving the invoice to target is legal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range invoiceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return len(invoiceTransitions[s]) == 0
}

// Invoice is a request for payment against a Job.
//
// Storage model (DynamoDB):
//   - PK: id (derived from the job number, e.g. INV-MAPLE-042 or
//     INV-MAPLE-042-2 for repeat invoices)
//   - GSI1 (job_id-index): job_id
//
// Invariants:
//   - at most one Deposit and at most one Balance invoice per job
//   - a Balance invoice amount is jobTotal - depositTotal, never recomputed
//     independently of the deposit
//   - LateFee/TotalWithFees are advisory until Paid: recomputed against the
//     due date on the overdue sweep and frozen when the invoice is paid
type Invoice struct {
	ID            string        `json:"id"`
	JobID         string        `json:"job_id"`
	Type          InvoiceType   `json:"type"`
	Status        InvoiceStatus `json:"status"`
	Amount        float64       `json:"amount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	PaymentRef    string        `json:"payment_ref,omitempty"`
	LateFee       float64       `json:"late_fee"`
	TotalWithFees float64       `json:"total_with_fees"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
