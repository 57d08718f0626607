package request

import (
	"encoding/json"
	"strings"
)

// IssueInvoiceRequest creates an invoice against a job. Type selects the
// split: "full", "deposit", "balance" or "additional". Amount is only
// consulted for additional invoices; the other types derive their figures
// from the job's quote.
type IssueInvoiceRequest struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount"`
}

func (r IssueInvoiceRequest) ResolveType() string {
	return strings.ToLower(strings.TrimSpace(r.Type))
}

// MarkPaidRequest records a settlement. PaymentPayload, when present, is
// forwarded to the payment gateway for capture before the invoice is marked.
type MarkPaidRequest struct {
	Method         string          `json:"method"`
	Reference      string          `json:"reference"`
	PaymentPayload json.RawMessage `json:"payment_payload,omitempty"`
}
