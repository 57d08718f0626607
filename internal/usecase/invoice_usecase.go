package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/infrastructure/observability"
	"cartcure_ops/internal/usecase/interfaces"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvalidInvoiceID   = errors.New("invalid invoice id")
	ErrInvalidInvoiceType = errors.New("invalid invoice type")
	ErrPaymentFailed      = errors.New("payment was not approved")
)

// IInvoiceUseCase exposes invoicing and settlement.

type IInvoiceUseCase interface {
	Issue(ctx context.Context, jobID string, invType entities.InvoiceType, amountExclTax float64) (entities.Invoice, error)
	GenerateBalance(ctx context.Context, jobID string) (entities.Invoice, error)
	Send(ctx context.Context, invoiceID string) (entities.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID, method, reference string, paymentPayload json.RawMessage) (entities.Invoice, error)
	Cancel(ctx context.Context, invoiceID string) (entities.Invoice, error)
	ReclassifyOverdue(ctx context.Context) ([]entities.Invoice, error)
	GetByID(ctx context.Context, invoiceID string) (entities.Invoice, error)
	ListByJobID(ctx context.Context, jobID string) ([]entities.Invoice, error)
}

type InvoiceUseCase struct {
	repo           interfaces.IInvoiceRepository
	jobRepo        interfaces.IJobRepository
	submissionRepo interfaces.ISubmissionRepository
	gateway        interfaces.IPaymentGateway
	notify         *notifier
	settings       config.Settings
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(
	repo interfaces.IInvoiceRepository,
	jobRepo interfaces.IJobRepository,
	submissionRepo interfaces.ISubmissionRepository,
	gateway interfaces.IPaymentGateway,
	notifyGateway interfaces.INotificationGateway,
	settings config.Settings,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		repo:           repo,
		jobRepo:        jobRepo,
		submissionRepo: submissionRepo,
		gateway:        gateway,
		notify:         &notifier{gateway: notifyGateway, adminEmail: settings.AdminEmail},
		settings:       settings,
	}
}

// Issue drafts a Full, Deposit or Additional invoice for a job. Balance
// invoices only exist relative to a deposit and go through GenerateBalance.
func (u *InvoiceUseCase) Issue(ctx context.Context, jobID string, invType entities.InvoiceType, amountExclTax float64) (entities.Invoice, error) {
	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		return entities.Invoice{}, err
	}

	existing, err := u.repo.ListByJobID(ctx, job.ID)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := time.Now().UTC()
	id := nextInvoiceNumber(job, existing, u.settings.InvoicePrefix)

	var inv entities.Invoice
	switch invType {
	case entities.InvoiceTypeDeposit:
		inv, err = workflow.NewDepositInvoice(job, existing, id, now)
		if err != nil {
			return entities.Invoice{}, err
		}
	case entities.InvoiceTypeFull, entities.InvoiceTypeAdditional:
		if invType == entities.InvoiceTypeAdditional && amountExclTax <= 0 {
			return entities.Invoice{}, ErrInvalidQuoteVal
		}
		inv = workflow.NewInvoice(job, id, invType, amountExclTax, u.settings.Pricing.TaxRate, now)
	default:
		return entities.Invoice{}, fmt.Errorf("%w: %s", ErrInvalidInvoiceType, invType)
	}

	created, err := u.repo.Create(ctx, inv)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return entities.Invoice{}, fmt.Errorf("%w: %s", workflow.ErrDuplicateInvoice, inv.ID)
		}
		return entities.Invoice{}, err
	}
	observability.InvoiceTransitions.WithLabelValues(string(created.Status)).Inc()
	log.Printf("[invoice][usecase] drafted invoice_id=%s job_id=%s type=%s total=%.2f", created.ID, job.ID, created.Type, created.Total)

	u.attachToJob(ctx, job, created.ID)
	return created, nil
}

// GenerateBalance drafts the balance half of a split payment: job total
// minus the deposit invoice's total.
func (u *InvoiceUseCase) GenerateBalance(ctx context.Context, jobID string) (entities.Invoice, error) {
	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		return entities.Invoice{}, err
	}

	existing, err := u.repo.ListByJobID(ctx, job.ID)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := time.Now().UTC()
	inv, err := workflow.NewBalanceInvoice(job, existing, nextInvoiceNumber(job, existing, u.settings.InvoicePrefix), now)
	if err != nil {
		return entities.Invoice{}, err
	}

	created, err := u.repo.Create(ctx, inv)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return entities.Invoice{}, fmt.Errorf("%w: %s", workflow.ErrDuplicateInvoice, inv.ID)
		}
		return entities.Invoice{}, err
	}
	observability.InvoiceTransitions.WithLabelValues(string(created.Status)).Inc()
	log.Printf("[invoice][usecase] balance drafted invoice_id=%s job_id=%s total=%.2f", created.ID, job.ID, created.Total)

	u.attachToJob(ctx, job, created.ID)
	return created, nil
}

// Send issues a draft invoice with the configured payment terms and emails
// it to the customer.
func (u *InvoiceUseCase) Send(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	inv, err := u.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := time.Now().UTC()
	due := now.AddDate(0, 0, u.settings.InvoiceDueDays)
	inv, events, err := workflow.SendInvoice(inv, due, now)
	if err != nil {
		return entities.Invoice{}, err
	}

	saved, err := u.repo.Save(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	observability.InvoiceTransitions.WithLabelValues(string(saved.Status)).Inc()

	if job, err := u.loadJob(ctx, saved.JobID); err == nil {
		if job.PaymentStatus == entities.PaymentStatusUnpaid {
			job.PaymentStatus = entities.PaymentStatusInvoiced
			if _, err := u.jobRepo.Save(ctx, job); err != nil {
				log.Printf("[invoice][usecase] job payment status update failed job_id=%s err=%v", job.ID, err)
			}
		}
		u.dispatch(ctx, job, saved, events)
	}
	return saved, nil
}

// MarkPaid settles a sent or overdue invoice. With a payment payload and a
// configured gateway, the payment is captured online and the provider id
// becomes the reference; otherwise the operator's method/reference are
// recorded as-is.
func (u *InvoiceUseCase) MarkPaid(ctx context.Context, invoiceID, method, reference string, paymentPayload json.RawMessage) (entities.Invoice, error) {
	inv, err := u.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	if len(paymentPayload) > 0 && u.gateway != nil {
		method, reference, err = u.capturePayment(ctx, inv, paymentPayload)
		if err != nil {
			return entities.Invoice{}, err
		}
	}

	now := time.Now().UTC()
	inv, events, err := workflow.MarkInvoicePaid(inv, method, reference, now)
	if err != nil {
		return entities.Invoice{}, err
	}

	saved, err := u.repo.Save(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	observability.InvoiceTransitions.WithLabelValues(string(saved.Status)).Inc()
	log.Printf("[invoice][usecase] paid invoice_id=%s method=%s ref=%s", saved.ID, saved.PaymentMethod, saved.PaymentRef)

	job, err := u.loadJob(ctx, saved.JobID)
	if err == nil {
		u.settleJobPayment(ctx, job)
		u.dispatch(ctx, job, saved, events)
	}
	return saved, nil
}

func (u *InvoiceUseCase) Cancel(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	inv, err := u.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	inv, _, err = workflow.CancelInvoice(inv, time.Now().UTC())
	if err != nil {
		return entities.Invoice{}, err
	}

	saved, err := u.repo.Save(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	observability.InvoiceTransitions.WithLabelValues(string(saved.Status)).Inc()
	return saved, nil
}

// ReclassifyOverdue is the time-driven sweep: every sent invoice past its
// due date moves to Overdue and picks up the accrued late fee; already
// overdue invoices refresh their fee. Returns the invoices that changed.
func (u *InvoiceUseCase) ReclassifyOverdue(ctx context.Context) ([]entities.Invoice, error) {
	asOf := time.Now().UTC()

	var candidates []entities.Invoice
	for _, status := range []entities.InvoiceStatus{entities.InvoiceStatusSent, entities.InvoiceStatusOverdue} {
		list, err := u.repo.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, list...)
	}

	var changed []entities.Invoice
	for _, inv := range candidates {
		updated, events, dirty := workflow.ReclassifyOverdue(inv, u.settings.Pricing, asOf)
		if !dirty {
			continue
		}

		saved, err := u.repo.Save(ctx, updated)
		if err != nil {
			log.Printf("[invoice][usecase] overdue save failed invoice_id=%s err=%v", inv.ID, err)
			continue
		}
		changed = append(changed, saved)

		if len(events) == 0 {
			continue
		}
		observability.InvoiceTransitions.WithLabelValues(string(saved.Status)).Inc()
		if job, err := u.loadJob(ctx, saved.JobID); err == nil {
			if job.PaymentStatus == entities.PaymentStatusInvoiced {
				job.PaymentStatus = entities.PaymentStatusOverdue
				if _, err := u.jobRepo.Save(ctx, job); err != nil {
					log.Printf("[invoice][usecase] job payment status update failed job_id=%s err=%v", job.ID, err)
				}
			}
			u.dispatch(ctx, job, saved, events)
		}
	}

	log.Printf("[invoice][usecase] overdue sweep done checked=%d changed=%d", len(candidates), len(changed))
	return changed, nil
}

func (u *InvoiceUseCase) GetByID(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return entities.Invoice{}, ErrInvalidInvoiceID
	}

	inv, err := u.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (u *InvoiceUseCase) ListByJobID(ctx context.Context, jobID string) ([]entities.Invoice, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrInvalidJobID
	}
	return u.repo.ListByJobID(ctx, jobID)
}

// capturePayment runs the payload through the provider. The charged amount
// is always the invoice's current total with fees; the caller's payload
// cannot override it.
func (u *InvoiceUseCase) capturePayment(ctx context.Context, inv entities.Invoice, payload json.RawMessage) (method, reference string, err error) {
	if !json.Valid(payload) {
		return "", "", fmt.Errorf("%w: payload is not valid json", ErrPaymentFailed)
	}

	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	total := inv.TotalWithFees
	if total == 0 {
		total = inv.Total
	}
	req["transaction_amount"] = total
	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = inv.ID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Invoice %s", inv.ID)
	}
	enriched, err := json.Marshal(req)
	if err != nil {
		return "", "", err
	}

	providerID, providerStatus, _, err := u.gateway.CreatePayment(ctx, enriched)
	if err != nil {
		log.Printf("[invoice][usecase] gateway payment failed invoice_id=%s err=%v", inv.ID, err)
		return "", "", err
	}
	if providerStatus != "approved" {
		return "", "", fmt.Errorf("%w: provider status %s", ErrPaymentFailed, providerStatus)
	}
	return "mercadopago", providerID, nil
}

// settleJobPayment flips the job to Paid once no sent/overdue invoices
// remain against it.
func (u *InvoiceUseCase) settleJobPayment(ctx context.Context, job entities.Job) {
	invoices, err := u.repo.ListByJobID(ctx, job.ID)
	if err != nil {
		log.Printf("[invoice][usecase] invoice list failed job_id=%s err=%v", job.ID, err)
		return
	}

	for _, inv := range invoices {
		if inv.Status == entities.InvoiceStatusSent || inv.Status == entities.InvoiceStatusOverdue {
			return
		}
	}

	job.PaymentStatus = entities.PaymentStatusPaid
	if _, err := u.jobRepo.Save(ctx, job); err != nil {
		log.Printf("[invoice][usecase] job payment status update failed job_id=%s err=%v", job.ID, err)
	}
}

func (u *InvoiceUseCase) dispatch(ctx context.Context, job entities.Job, inv entities.Invoice, events []workflow.Event) {
	email := ""
	if s, err := u.submissionRepo.GetByID(ctx, job.SubmissionID); err == nil && s.ID != "" {
		email = s.Email
	}

	for _, ev := range events {
		var subject, body string
		switch ev.Type {
		case workflow.EventInvoiceSent:
			subject, body = renderInvoice(inv)
		case workflow.EventInvoicePaid:
			subject, body = renderReceipt(inv)
		case workflow.EventInvoiceOverdue:
			fee := u.settings.Pricing.LateFee(inv.Total, derefTime(inv.DueDate), time.Now().UTC())
			subject, body = renderOverdue(inv, fee.DaysOverdue)
		default:
			continue
		}
		if email != "" {
			u.notify.send(ctx, []string{email}, subject, body)
		}
		u.notify.sendAdmin(ctx, subject, body)
	}
}

func (u *InvoiceUseCase) loadJob(ctx context.Context, jobID string) (entities.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Job{}, ErrInvalidJobID
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}
	if job.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return job, nil
}

func (u *InvoiceUseCase) attachToJob(ctx context.Context, job entities.Job, invoiceID string) {
	job.InvoiceIDs = append(job.InvoiceIDs, invoiceID)
	if _, err := u.jobRepo.Save(ctx, job); err != nil {
		log.Printf("[invoice][usecase] invoice attach failed job_id=%s invoice_id=%s err=%v", job.ID, invoiceID, err)
	}
}

// nextInvoiceNumber derives INV-<WORD>-<NNN> from the job number, with a
// numeric suffix once a job has more than one invoice.
func nextInvoiceNumber(job entities.Job, existing []entities.Invoice, prefix string) string {
	return validation.DerivedNumber(job.ID, prefix, len(existing)+1)
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
