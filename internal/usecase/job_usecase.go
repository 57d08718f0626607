package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/sla"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/infrastructure/observability"
	"cartcure_ops/internal/usecase/interfaces"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrInvalidJobID    = errors.New("invalid job id")
	ErrInvalidQuoteVal = errors.New("invalid quote amount")
)

// JobView is a job snapshot plus its derived SLA fields. The stored due date
// never changes after acceptance; only the classification is recomputed.
type JobView struct {
	entities.Job
	SLAStatus     sla.Status `json:"sla_status,omitempty"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`
}

// IJobUseCase exposes the job workflow. Every action loads the current
// snapshot, applies the matching pure transition and persists the result;
// events emitted by the transition are dispatched after the write.

type IJobUseCase interface {
	PrepareQuote(ctx context.Context, jobID string, amountExclTax float64, turnaroundDays int) (entities.Job, error)
	AcceptQuote(ctx context.Context, jobID string) (entities.Job, error)
	DeclineQuote(ctx context.Context, jobID, reason string) (entities.Job, error)
	Start(ctx context.Context, jobID string) (entities.Job, error)
	Hold(ctx context.Context, jobID, reason string) (entities.Job, error)
	Resume(ctx context.Context, jobID string) (entities.Job, error)
	Cancel(ctx context.Context, jobID, reason string) (entities.Job, error)
	Complete(ctx context.Context, jobID string) (entities.Job, error)
	GetByID(ctx context.Context, jobID string) (JobView, error)
}

type JobUseCase struct {
	repo           interfaces.IJobRepository
	submissionRepo interfaces.ISubmissionRepository
	invoiceRepo    interfaces.IInvoiceRepository
	notify         *notifier
	settings       config.Settings
}

var _ IJobUseCase = (*JobUseCase)(nil)

func NewJobUseCase(
	repo interfaces.IJobRepository,
	submissionRepo interfaces.ISubmissionRepository,
	invoiceRepo interfaces.IInvoiceRepository,
	gateway interfaces.INotificationGateway,
	settings config.Settings,
) *JobUseCase {
	return &JobUseCase{
		repo:           repo,
		submissionRepo: submissionRepo,
		invoiceRepo:    invoiceRepo,
		notify:         &notifier{gateway: gateway, adminEmail: settings.AdminEmail},
		settings:       settings,
	}
}

func (u *JobUseCase) PrepareQuote(ctx context.Context, jobID string, amountExclTax float64, turnaroundDays int) (entities.Job, error) {
	if amountExclTax <= 0 {
		return entities.Job{}, ErrInvalidQuoteVal
	}
	if turnaroundDays <= 0 {
		turnaroundDays = u.settings.DefaultTurnaroundDays
	}

	return u.transition(ctx, jobID, func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error) {
		return workflow.PrepareQuote(job, u.settings.Pricing, amountExclTax, turnaroundDays, now)
	})
}

func (u *JobUseCase) AcceptQuote(ctx context.Context, jobID string) (entities.Job, error) {
	return u.transition(ctx, jobID, func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error) {
		return workflow.AcceptQuote(job, u.settings.Pricing, now)
	})
}

func (u *JobUseCase) DeclineQuote(ctx context.Context, jobID, reason string) (entities.Job, error) {
	return u.transition(ctx, jobID, func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error) {
		return workflow.DeclineQuote(job, reason, now)
	})
}

func (u *JobUseCase) Start(ctx context.Context, jobID string) (entities.Job, error) {
	return u.transition(ctx, jobID, workflow.StartJob)
}

func (u *JobUseCase) Hold(ctx context.Context, jobID, reason string) (entities.Job, error) {
	return u.transition(ctx, jobID, func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error) {
		return workflow.HoldJob(job, reason, now)
	})
}

func (u *JobUseCase) Resume(ctx context.Context, jobID string) (entities.Job, error) {
	return u.transition(ctx, jobID, workflow.ResumeJob)
}

func (u *JobUseCase) Cancel(ctx context.Context, jobID, reason string) (entities.Job, error) {
	return u.transition(ctx, jobID, func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error) {
		return workflow.CancelJob(job, reason, now)
	})
}

func (u *JobUseCase) Complete(ctx context.Context, jobID string) (entities.Job, error) {
	return u.transition(ctx, jobID, workflow.CompleteJob)
}

func (u *JobUseCase) GetByID(ctx context.Context, jobID string) (JobView, error) {
	job, err := u.load(ctx, jobID)
	if err != nil {
		return JobView{}, err
	}

	view := JobView{Job: job}
	if job.DueDate != nil {
		now := time.Now().UTC()
		view.SLAStatus = workflow.ClassifyJobSLA(job, now, u.settings.AtRiskThresholdDays)
		remaining := sla.DaysRemaining(*job.DueDate, now)
		view.DaysRemaining = &remaining
	}
	return view, nil
}

func (u *JobUseCase) transition(
	ctx context.Context,
	jobID string,
	apply func(job entities.Job, now time.Time) (entities.Job, []workflow.Event, error),
) (entities.Job, error) {
	job, err := u.load(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}

	now := time.Now().UTC()
	updated, events, err := apply(job, now)
	if err != nil {
		return entities.Job{}, err
	}

	updated, err = u.handleEvents(ctx, updated, events, now)
	if err != nil {
		return entities.Job{}, err
	}

	saved, err := u.repo.Save(ctx, updated)
	if err != nil {
		return entities.Job{}, err
	}
	observability.JobTransitions.WithLabelValues(string(saved.Status)).Inc()
	log.Printf("[job][usecase] transition applied job_id=%s status=%s", saved.ID, saved.Status)

	u.dispatchEmails(ctx, saved, events)
	return saved, nil
}

// handleEvents performs the event side effects that must land in the same
// write as the transition, i.e. deposit invoice creation on acceptance.
func (u *JobUseCase) handleEvents(ctx context.Context, job entities.Job, events []workflow.Event, now time.Time) (entities.Job, error) {
	for _, ev := range events {
		if ev.Type != workflow.EventDepositInvoiceRequired {
			continue
		}

		existing, err := u.invoiceRepo.ListByJobID(ctx, job.ID)
		if err != nil {
			return entities.Job{}, err
		}

		id := u.nextInvoiceID(job, existing)
		deposit, err := workflow.NewDepositInvoice(job, existing, id, now)
		if err != nil {
			if errors.Is(err, workflow.ErrDuplicateInvoice) {
				// Re-acceptance after a rollback; the deposit already exists.
				continue
			}
			return entities.Job{}, err
		}

		due := now.AddDate(0, 0, u.settings.InvoiceDueDays)
		deposit, sendEvents, err := workflow.SendInvoice(deposit, due, now)
		if err != nil {
			return entities.Job{}, err
		}

		created, err := u.invoiceRepo.Create(ctx, deposit)
		if err != nil {
			return entities.Job{}, err
		}
		observability.InvoiceTransitions.WithLabelValues(string(created.Status)).Inc()
		log.Printf("[job][usecase] deposit invoice issued job_id=%s invoice_id=%s total=%.2f", job.ID, created.ID, created.Total)

		job.InvoiceIDs = append(job.InvoiceIDs, created.ID)
		job.PaymentStatus = entities.PaymentStatusInvoiced

		u.dispatchInvoiceEmails(ctx, job, created, sendEvents)
	}
	return job, nil
}

func (u *JobUseCase) nextInvoiceID(job entities.Job, existing []entities.Invoice) string {
	return nextInvoiceNumber(job, existing, u.settings.InvoicePrefix)
}

func (u *JobUseCase) dispatchEmails(ctx context.Context, job entities.Job, events []workflow.Event) {
	email := u.customerEmail(ctx, job)
	for _, ev := range events {
		var subject, body string
		switch ev.Type {
		case workflow.EventQuoteReady:
			subject, body = renderQuote(job)
		case workflow.EventJobAccepted:
			subject, body = renderAccepted(job)
		case workflow.EventJobCompleted:
			subject, body = renderCompleted(job)
		case workflow.EventJobDeclined:
			subject, body = renderDeclined(job)
		case workflow.EventJobCancelled:
			subject, body = renderCancelled(job)
		default:
			continue
		}
		if email != "" {
			u.notify.send(ctx, []string{email}, subject, body)
		}
		u.notify.sendAdmin(ctx, subject, body)
	}
}

func (u *JobUseCase) dispatchInvoiceEmails(ctx context.Context, job entities.Job, inv entities.Invoice, events []workflow.Event) {
	email := u.customerEmail(ctx, job)
	if email == "" {
		return
	}
	for _, ev := range events {
		if ev.Type == workflow.EventInvoiceSent {
			subject, body := renderInvoice(inv)
			u.notify.send(ctx, []string{email}, subject, body)
		}
	}
}

func (u *JobUseCase) customerEmail(ctx context.Context, job entities.Job) string {
	s, err := u.submissionRepo.GetByID(ctx, job.SubmissionID)
	if err != nil || s.ID == "" {
		log.Printf("[job][usecase] submission lookup failed job_id=%s submission_id=%s err=%v", job.ID, job.SubmissionID, err)
		return ""
	}
	return s.Email
}

func (u *JobUseCase) load(ctx context.Context, jobID string) (entities.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Job{}, ErrInvalidJobID
	}

	job, err := u.repo.GetByID(ctx, jobID)
	if err != nil {
		return entities.Job{}, err
	}
	if job.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return job, nil
}
