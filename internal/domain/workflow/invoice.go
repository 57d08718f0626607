package workflow

import (
	"fmt"
	"time"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/pricing"
)

// NewInvoice drafts a Full or Additional invoice for a job. amountExclTax of
// zero means "the whole job": the invoice copies the job's amount/tax/total.
func NewInvoice(job entities.Job, id string, invType entities.InvoiceType, amountExclTax float64, taxRate float64, now time.Time) entities.Invoice {
	amount := job.Amount
	tax := job.Tax
	if amountExclTax > 0 {
		amount = pricing.Round2(amountExclTax)
		tax = pricing.Round2(amountExclTax * taxRate)
	}
	return entities.Invoice{
		ID:        id,
		JobID:     job.ID,
		Type:      invType,
		Status:    entities.InvoiceStatusDraft,
		Amount:    amount,
		Tax:       tax,
		Total:     pricing.Round2(amount + tax),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewDepositInvoice drafts the deposit half of a split payment. Fails with
// ErrDuplicateInvoice when the job already has a Deposit invoice.
func NewDepositInvoice(job entities.Job, existing []entities.Invoice, id string, now time.Time) (entities.Invoice, error) {
	if findByType(existing, entities.InvoiceTypeDeposit) != nil {
		return entities.Invoice{}, fmt.Errorf("job %s: deposit: %w", job.ID, ErrDuplicateInvoice)
	}

	split := pricing.DepositSplit(job.Amount, job.Tax, job.Total)
	return entities.Invoice{
		ID:        id,
		JobID:     job.ID,
		Type:      entities.InvoiceTypeDeposit,
		Status:    entities.InvoiceStatusDraft,
		Amount:    split.DepositAmount,
		Tax:       split.DepositTax,
		Total:     split.DepositTotal,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewBalanceInvoice drafts the balance half once a deposit exists. The
// balance is the job total minus the deposit invoice's total, so the two
// invoices reconstruct the job total exactly.
func NewBalanceInvoice(job entities.Job, existing []entities.Invoice, id string, now time.Time) (entities.Invoice, error) {
	deposit := findByType(existing, entities.InvoiceTypeDeposit)
	if deposit == nil {
		return entities.Invoice{}, fmt.Errorf("job %s: %w", job.ID, ErrNoDepositFound)
	}
	if findByType(existing, entities.InvoiceTypeBalance) != nil {
		return entities.Invoice{}, fmt.Errorf("job %s: balance: %w", job.ID, ErrDuplicateInvoice)
	}

	return entities.Invoice{
		ID:        id,
		JobID:     job.ID,
		Type:      entities.InvoiceTypeBalance,
		Status:    entities.InvoiceStatusDraft,
		Amount:    pricing.Round2(job.Amount - deposit.Amount),
		Tax:       pricing.Round2(job.Tax - deposit.Tax),
		Total:     pricing.Round2(job.Total - deposit.Total),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SendInvoice issues a draft invoice with a payment due date.
func SendInvoice(inv entities.Invoice, dueDate time.Time, now time.Time) (entities.Invoice, []Event, error) {
	if err := guardInvoice(inv, entities.InvoiceStatusSent); err != nil {
		return entities.Invoice{}, nil, err
	}

	sent := now
	inv.Status = entities.InvoiceStatusSent
	inv.SentAt = &sent
	inv.DueDate = &dueDate
	inv.TotalWithFees = inv.Total
	inv.UpdatedAt = now

	return inv, []Event{{Type: EventInvoiceSent, JobID: inv.JobID, InvoiceID: inv.ID}}, nil
}

// MarkInvoicePaid settles a sent or overdue invoice, recording how the money
// arrived. Accrued late fees are frozen at their current value. The emitted
// event signals that the linked job's payment status should become Paid.
func MarkInvoicePaid(inv entities.Invoice, method, reference string, now time.Time) (entities.Invoice, []Event, error) {
	if inv.Status != entities.InvoiceStatusSent && inv.Status != entities.InvoiceStatusOverdue {
		return entities.Invoice{}, nil, invalidInvoice(inv, entities.InvoiceStatusPaid)
	}

	paid := now
	inv.Status = entities.InvoiceStatusPaid
	inv.PaidAt = &paid
	inv.PaymentMethod = method
	inv.PaymentRef = reference
	inv.UpdatedAt = now

	return inv, []Event{{Type: EventInvoicePaid, JobID: inv.JobID, InvoiceID: inv.ID}}, nil
}

// CancelInvoice voids an invoice that will never be collected.
func CancelInvoice(inv entities.Invoice, now time.Time) (entities.Invoice, []Event, error) {
	if err := guardInvoice(inv, entities.InvoiceStatusCancelled); err != nil {
		return entities.Invoice{}, nil, err
	}

	inv.Status = entities.InvoiceStatusCancelled
	inv.UpdatedAt = now
	return inv, nil, nil
}

// ReclassifyOverdue is the time-driven Sent -> Overdue edge. A sent invoice
// past its due date picks up the accrued late fee; an already overdue one
// refreshes the fee. The second return reports whether anything changed.
func ReclassifyOverdue(inv entities.Invoice, cfg pricing.Config, asOf time.Time) (entities.Invoice, []Event, bool) {
	if inv.DueDate == nil {
		return inv, nil, false
	}
	if inv.Status != entities.InvoiceStatusSent && inv.Status != entities.InvoiceStatusOverdue {
		return inv, nil, false
	}

	fee := cfg.LateFee(inv.Total, *inv.DueDate, asOf)
	if fee.DaysOverdue == 0 {
		return inv, nil, false
	}

	firstTime := inv.Status == entities.InvoiceStatusSent
	inv.Status = entities.InvoiceStatusOverdue
	inv.LateFee = fee.LateFee
	inv.TotalWithFees = fee.TotalWithFees
	inv.UpdatedAt = asOf

	var events []Event
	if firstTime {
		events = []Event{{Type: EventInvoiceOverdue, JobID: inv.JobID, InvoiceID: inv.ID}}
	}
	return inv, events, true
}

func findByType(invoices []entities.Invoice, t entities.InvoiceType) *entities.Invoice {
	for i := range invoices {
		if invoices[i].Type == t && invoices[i].Status != entities.InvoiceStatusCancelled {
			return &invoices[i]
		}
	}
	return nil
}

func guardInvoice(inv entities.Invoice, target entities.InvoiceStatus) error {
	if !inv.Status.CanTransitionTo(target) {
		return invalidInvoice(inv, target)
	}
	return nil
}

func invalidInvoice(inv entities.Invoice, target entities.InvoiceStatus) error {
	return &InvalidTransitionError{Entity: "invoice", From: string(inv.Status), To: string(target)}
}
