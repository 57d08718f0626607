package workflow

import (
	"errors"
	"testing"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/pricing"
)

func TestNewInvoice(t *testing.T) {
	job := quotedJob(300)

	t.Run("full copies the job figures", func(t *testing.T) {
		inv := NewInvoice(job, "INV-MAPLE-042", entities.InvoiceTypeFull, 0, testPricing.TaxRate, testNow)
		if inv.Amount != 300 || inv.Tax != 45 || inv.Total != 345 {
			t.Fatalf("unexpected figures: %+v", inv)
		}
		if inv.Status != entities.InvoiceStatusDraft {
			t.Fatalf("expected draft, got %s", inv.Status)
		}
	})

	t.Run("additional prices its own amount", func(t *testing.T) {
		inv := NewInvoice(job, "INV-MAPLE-042-2", entities.InvoiceTypeAdditional, 80, testPricing.TaxRate, testNow)
		if inv.Amount != 80 || inv.Tax != 12 || inv.Total != 92 {
			t.Fatalf("unexpected figures: %+v", inv)
		}
	})
}

func TestNewDepositInvoice(t *testing.T) {
	job := quotedJob(300)

	t.Run("halves the quote", func(t *testing.T) {
		inv, err := NewDepositInvoice(job, nil, "INV-MAPLE-042", testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.Amount != 150 || inv.Tax != 22.5 || inv.Total != 172.5 {
			t.Fatalf("unexpected figures: %+v", inv)
		}
		if inv.Type != entities.InvoiceTypeDeposit {
			t.Fatalf("expected deposit type")
		}
	})

	t.Run("rejects a second deposit", func(t *testing.T) {
		existing := []entities.Invoice{{Type: entities.InvoiceTypeDeposit, Status: entities.InvoiceStatusSent}}
		_, err := NewDepositInvoice(job, existing, "INV-MAPLE-042-2", testNow)
		if !errors.Is(err, ErrDuplicateInvoice) {
			t.Fatalf("expected ErrDuplicateInvoice, got %v", err)
		}
	})

	t.Run("a cancelled deposit does not count", func(t *testing.T) {
		existing := []entities.Invoice{{Type: entities.InvoiceTypeDeposit, Status: entities.InvoiceStatusCancelled}}
		if _, err := NewDepositInvoice(job, existing, "INV-MAPLE-042-2", testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestNewBalanceInvoice(t *testing.T) {
	job := quotedJob(300)

	t.Run("requires a deposit first", func(t *testing.T) {
		_, err := NewBalanceInvoice(job, nil, "INV-MAPLE-042-2", testNow)
		if !errors.Is(err, ErrNoDepositFound) {
			t.Fatalf("expected ErrNoDepositFound, got %v", err)
		}
	})

	t.Run("balance is job minus deposit", func(t *testing.T) {
		deposit, err := NewDepositInvoice(job, nil, "INV-MAPLE-042", testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		balance, err := NewBalanceInvoice(job, []entities.Invoice{deposit}, "INV-MAPLE-042-2", testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pricing.Round2(deposit.Total+balance.Total) != job.Total {
			t.Fatalf("halves do not reconstruct the job total: %v + %v != %v", deposit.Total, balance.Total, job.Total)
		}
		if pricing.Round2(deposit.Amount+balance.Amount) != job.Amount {
			t.Fatalf("amount halves do not reconstruct")
		}
	})

	t.Run("rejects a second balance", func(t *testing.T) {
		existing := []entities.Invoice{
			{Type: entities.InvoiceTypeDeposit, Status: entities.InvoiceStatusPaid},
			{Type: entities.InvoiceTypeBalance, Status: entities.InvoiceStatusSent},
		}
		_, err := NewBalanceInvoice(job, existing, "INV-MAPLE-042-3", testNow)
		if !errors.Is(err, ErrDuplicateInvoice) {
			t.Fatalf("expected ErrDuplicateInvoice, got %v", err)
		}
	})
}

func TestSendAndPayInvoice(t *testing.T) {
	job := quotedJob(300)
	draft := NewInvoice(job, "INV-MAPLE-042", entities.InvoiceTypeFull, 0, testPricing.TaxRate, testNow)
	due := testNow.AddDate(0, 0, 7)

	sent, events, err := SendInvoice(draft, due, testNow)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != entities.InvoiceStatusSent || sent.SentAt == nil || sent.DueDate == nil {
		t.Fatalf("unexpected sent invoice: %+v", sent)
	}
	if sent.TotalWithFees != sent.Total {
		t.Fatalf("expected total with fees initialized to total")
	}
	if !hasEvent(events, EventInvoiceSent) {
		t.Fatalf("expected sent event")
	}

	// Can't send twice.
	if _, _, err := SendInvoice(sent, due, testNow); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}

	paid, events, err := MarkInvoicePaid(sent, "bank_transfer", "ref-123", testNow)
	if err != nil {
		t.Fatalf("paid: %v", err)
	}
	if paid.Status != entities.InvoiceStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected paid invoice: %+v", paid)
	}
	if paid.PaymentMethod != "bank_transfer" || paid.PaymentRef != "ref-123" {
		t.Fatalf("payment details not recorded: %+v", paid)
	}
	if !hasEvent(events, EventInvoicePaid) {
		t.Fatalf("expected paid event")
	}

	// Terminal.
	if _, _, err := MarkInvoicePaid(paid, "cash", "", testNow); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestMarkInvoicePaidFromDraft(t *testing.T) {
	job := quotedJob(300)
	draft := NewInvoice(job, "INV-MAPLE-042", entities.InvoiceTypeFull, 0, testPricing.TaxRate, testNow)

	_, _, err := MarkInvoicePaid(draft, "cash", "", testNow)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestCancelInvoice(t *testing.T) {
	job := quotedJob(300)
	draft := NewInvoice(job, "INV-MAPLE-042", entities.InvoiceTypeFull, 0, testPricing.TaxRate, testNow)

	cancelled, _, err := CancelInvoice(draft, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != entities.InvoiceStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	if _, _, err := SendInvoice(cancelled, testNow, testNow); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestReclassifyOverdue(t *testing.T) {
	job := quotedJob(300)
	draft := NewInvoice(job, "INV-MAPLE-042", entities.InvoiceTypeFull, 0, testPricing.TaxRate, testNow)
	due := testNow.AddDate(0, 0, 7)
	sent, _, err := SendInvoice(draft, due, testNow)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	t.Run("not yet due", func(t *testing.T) {
		_, _, changed := ReclassifyOverdue(sent, testPricing, due)
		if changed {
			t.Fatalf("expected no change on the due date")
		}
	})

	t.Run("first pass emits an event and accrues the fee", func(t *testing.T) {
		overdue, events, changed := ReclassifyOverdue(sent, testPricing, due.AddDate(0, 0, 3))
		if !changed {
			t.Fatalf("expected change")
		}
		if overdue.Status != entities.InvoiceStatusOverdue {
			t.Fatalf("expected overdue, got %s", overdue.Status)
		}
		if overdue.LateFee != 10.35 || overdue.TotalWithFees != 355.35 {
			t.Fatalf("unexpected fee: %+v", overdue)
		}
		if !hasEvent(events, EventInvoiceOverdue) {
			t.Fatalf("expected overdue event")
		}

		t.Run("second pass refreshes silently", func(t *testing.T) {
			refreshed, events, changed := ReclassifyOverdue(overdue, testPricing, due.AddDate(0, 0, 5))
			if !changed {
				t.Fatalf("expected change")
			}
			if len(events) != 0 {
				t.Fatalf("expected no repeat event, got %+v", events)
			}
			if refreshed.LateFee != 17.25 {
				t.Fatalf("expected refreshed fee 17.25, got %v", refreshed.LateFee)
			}
		})
	})

	t.Run("draft is ignored", func(t *testing.T) {
		_, _, changed := ReclassifyOverdue(draft, testPricing, due.AddDate(0, 0, 30))
		if changed {
			t.Fatalf("expected draft untouched")
		}
	})

	t.Run("fee freezes at payment", func(t *testing.T) {
		overdue, _, _ := ReclassifyOverdue(sent, testPricing, due.AddDate(0, 0, 3))
		paid, _, err := MarkInvoicePaid(overdue, "card", "ref-9", due.AddDate(0, 0, 3))
		if err != nil {
			t.Fatalf("paid: %v", err)
		}
		if paid.LateFee != 10.35 || paid.TotalWithFees != 355.35 {
			t.Fatalf("fee should freeze at payment: %+v", paid)
		}
	})
}
