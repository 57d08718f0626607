// Package workflow holds the pure transition functions that move jobs and
// invoices between states. Each function takes an entity snapshot, a
// timestamp and configuration, and returns a new snapshot plus the events
// the host should act on. Inputs are never mutated and no ambient state is
// read, so every transition is independently unit-testable.
package workflow

import (
	"fmt"
	"time"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/pricing"
	"cartcure_ops/internal/domain/sla"
)

// PrepareQuote prices a pending job and moves it to Quoted. Tax and total
// are always recomputed from the ex-tax amount; a stale stored total is
// never trusted.
func PrepareQuote(job entities.Job, cfg pricing.Config, amountExclTax float64, turnaroundDays int, now time.Time) (entities.Job, []Event, error) {
	if err := guardJob(job, entities.JobStatusQuoted); err != nil {
		return entities.Job{}, nil, err
	}

	job = cloneJob(job)
	job.Status = entities.JobStatusQuoted
	job.Amount = pricing.Round2(amountExclTax)
	job.Tax = cfg.Tax(amountExclTax)
	job.Total = pricing.Round2(job.Amount + job.Tax)
	job.TurnaroundDays = turnaroundDays
	job.UpdatedAt = now
	appendNote(&job, now, fmt.Sprintf("quoted at %.2f (%.2f incl tax), %d day turnaround", job.Amount, job.Total, turnaroundDays))

	events := []Event{{Type: EventQuoteReady, JobID: job.ID}}
	return job, events, nil
}

// AcceptQuote locks in the quote: the due date is computed once here from
// the turnaround estimate and never silently recomputed afterwards. When the
// total is at/above the deposit threshold the caller is asked, via event, to
// generate and send a Deposit invoice for half the total.
func AcceptQuote(job entities.Job, cfg pricing.Config, now time.Time) (entities.Job, []Event, error) {
	if err := guardJob(job, entities.JobStatusAccepted); err != nil {
		return entities.Job{}, nil, err
	}

	accepted := now
	due := sla.DueDate(accepted, job.TurnaroundDays)

	job = cloneJob(job)
	job.Status = entities.JobStatusAccepted
	job.AcceptedAt = &accepted
	job.DueDate = &due
	job.UpdatedAt = now
	appendNote(&job, now, fmt.Sprintf("quote accepted, due %s", due.Format("2006-01-02")))

	events := []Event{{Type: EventJobAccepted, JobID: job.ID}}
	if cfg.RequiresDeposit(job.Total) {
		events = append(events, Event{Type: EventDepositInvoiceRequired, JobID: job.ID})
	}
	return job, events, nil
}

// DeclineQuote marks a quoted job as declined by the customer.
func DeclineQuote(job entities.Job, reason string, now time.Time) (entities.Job, []Event, error) {
	if err := guardJob(job, entities.JobStatusDeclined); err != nil {
		return entities.Job{}, nil, err
	}

	job = cloneJob(job)
	job.Status = entities.JobStatusDeclined
	job.UpdatedAt = now
	appendNote(&job, now, reasonNote("quote declined", reason))

	return job, []Event{{Type: EventJobDeclined, JobID: job.ID}}, nil
}

// StartJob moves an accepted job into progress.
func StartJob(job entities.Job, now time.Time) (entities.Job, []Event, error) {
	if job.Status != entities.JobStatusAccepted {
		return entities.Job{}, nil, invalidJob(job, entities.JobStatusInProgress)
	}

	started := now
	job = cloneJob(job)
	job.Status = entities.JobStatusInProgress
	job.StartedAt = &started
	job.UpdatedAt = now
	appendNote(&job, now, "work started")

	return job, nil, nil
}

// HoldJob pauses an accepted or in-progress job.
func HoldJob(job entities.Job, reason string, now time.Time) (entities.Job, []Event, error) {
	if err := guardJob(job, entities.JobStatusOnHold); err != nil {
		return entities.Job{}, nil, err
	}

	job = cloneJob(job)
	job.Status = entities.JobStatusOnHold
	job.UpdatedAt = now
	appendNote(&job, now, reasonNote("placed on hold", reason))

	return job, nil, nil
}

// ResumeJob takes a held job back into progress.
func ResumeJob(job entities.Job, now time.Time) (entities.Job, []Event, error) {
	if job.Status != entities.JobStatusOnHold {
		return entities.Job{}, nil, invalidJob(job, entities.JobStatusInProgress)
	}

	job = cloneJob(job)
	job.Status = entities.JobStatusInProgress
	job.UpdatedAt = now
	appendNote(&job, now, "resumed from hold")

	return job, nil, nil
}

// CancelJob cancels a job from any non-terminal post-quote state.
func CancelJob(job entities.Job, reason string, now time.Time) (entities.Job, []Event, error) {
	if err := guardJob(job, entities.JobStatusCancelled); err != nil {
		return entities.Job{}, nil, err
	}

	job = cloneJob(job)
	job.Status = entities.JobStatusCancelled
	job.UpdatedAt = now
	appendNote(&job, now, reasonNote("cancelled", reason))

	return job, []Event{{Type: EventJobCancelled, JobID: job.ID}}, nil
}

// CompleteJob finishes an in-progress job. A completed job has no SLA, so
// the due date is cleared; the acceptance date is kept for reporting.
func CompleteJob(job entities.Job, now time.Time) (entities.Job, []Event, error) {
	if job.Status != entities.JobStatusInProgress {
		return entities.Job{}, nil, invalidJob(job, entities.JobStatusCompleted)
	}

	completed := now
	job = cloneJob(job)
	job.Status = entities.JobStatusCompleted
	job.CompletedAt = &completed
	job.DueDate = nil
	job.UpdatedAt = now
	appendNote(&job, now, "completed")

	return job, []Event{{Type: EventJobCompleted, JobID: job.ID}}, nil
}

// ClassifyJobSLA returns the delivery-risk status of an accepted job, or ""
// when the job carries no SLA (not yet accepted, or already done).
func ClassifyJobSLA(job entities.Job, asOf time.Time, atRiskThresholdDays int) sla.Status {
	if job.DueDate == nil {
		return ""
	}
	return sla.Classify(*job.DueDate, asOf, atRiskThresholdDays)
}

func guardJob(job entities.Job, target entities.JobStatus) error {
	if !job.Status.CanTransitionTo(target) {
		return invalidJob(job, target)
	}
	return nil
}

func invalidJob(job entities.Job, target entities.JobStatus) error {
	return &InvalidTransitionError{Entity: "job", From: string(job.Status), To: string(target)}
}

// cloneJob copies the snapshot including its slices so transitions never
// alias the caller's data.
func cloneJob(j entities.Job) entities.Job {
	j.InvoiceIDs = append([]string(nil), j.InvoiceIDs...)
	j.Notes = append([]string(nil), j.Notes...)
	return j
}

func appendNote(j *entities.Job, now time.Time, note string) {
	j.Notes = append(j.Notes, fmt.Sprintf("%s %s", now.Format("2006-01-02"), note))
}

func reasonNote(action, reason string) string {
	if reason == "" {
		return action
	}
	return fmt.Sprintf("%s: %s", action, reason)
}
