package request

import "errors"

var (
	ErrInvalidQuoteAmount = errors.New("invalid quote amount")
)

// QuoteRequest carries the pricing inputs for a quote. The amount is the
// pre-tax figure; tax and total are derived server-side and never accepted
// from the client.
type QuoteRequest struct {
	Amount         float64 `json:"amount" binding:"required"`
	TurnaroundDays int     `json:"turnaround_days"`
}

func (r QuoteRequest) ResolveAmount() (float64, error) {
	if r.Amount <= 0 {
		return 0, ErrInvalidQuoteAmount
	}
	return r.Amount, nil
}

// ReasonRequest is the shared payload for decline/hold/cancel actions.
type ReasonRequest struct {
	Reason string `json:"reason"`
}
