package usecase

import (
	"context"
	"fmt"
	"log"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/infrastructure/observability"
	"cartcure_ops/internal/usecase/interfaces"
)

// notifier wraps the email gateway with best-effort semantics: workflow
// state never depends on delivery, so failures are logged and counted, not
// returned.
type notifier struct {
	gateway    interfaces.INotificationGateway
	adminEmail string
}

func (n *notifier) send(ctx context.Context, to []string, subject, body string) {
	if n == nil || n.gateway == nil || len(to) == 0 {
		observability.EmailsSent.WithLabelValues("disabled").Inc()
		return
	}
	err := n.gateway.Send(ctx, interfaces.Notification{To: to, Subject: subject, Body: body})
	if err != nil {
		log.Printf("[notify] send failed subject=%q err=%v", subject, err)
		observability.EmailsSent.WithLabelValues("failed").Inc()
		return
	}
	observability.EmailsSent.WithLabelValues("sent").Inc()
}

func (n *notifier) sendAdmin(ctx context.Context, subject, body string) {
	if n == nil || n.adminEmail == "" {
		return
	}
	n.send(ctx, []string{n.adminEmail}, subject, body)
}

// The renderings below are deliberately plain text. Placeholder variables
// are exactly the fields the pricing/SLA/workflow functions return.

func renderSubmissionReceived(s entities.Submission) (string, string) {
	subject := fmt.Sprintf("We received your enquiry (%s)", s.ID)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for getting in touch. Your enquiry number is %s.\nWe'll review it and come back to you with a quote.\n",
		s.Name, s.ID)
	return subject, body
}

func renderSubmissionAlert(s entities.Submission) (string, string) {
	subject := fmt.Sprintf("New submission %s", s.ID)
	body := fmt.Sprintf("New submission %s from %s <%s>.\n\n%s\n", s.ID, s.Name, s.Email, s.Message)
	return subject, body
}

func renderQuote(job entities.Job) (string, string) {
	subject := fmt.Sprintf("Your quote %s", job.ID)
	body := fmt.Sprintf(
		"Quote for %s:\n\nAmount: %.2f\nTax: %.2f\nTotal: %.2f\nEstimated turnaround: %d days from acceptance.\n",
		job.ID, job.Amount, job.Tax, job.Total, job.TurnaroundDays)
	return subject, body
}

func renderAccepted(job entities.Job) (string, string) {
	due := ""
	if job.DueDate != nil {
		due = job.DueDate.Format("2006-01-02")
	}
	subject := fmt.Sprintf("Quote accepted — %s", job.ID)
	body := fmt.Sprintf("Thanks for accepting the quote for %s. Expected delivery by %s.\n", job.ID, due)
	return subject, body
}

func renderCompleted(job entities.Job) (string, string) {
	subject := fmt.Sprintf("Job %s completed", job.ID)
	body := fmt.Sprintf(
		"Your job %s is complete. If you're happy with the result we'd love a short testimonial — just reply with a few words and a 1-5 rating.\n",
		job.ID)
	return subject, body
}

func renderDeclined(job entities.Job) (string, string) {
	subject := fmt.Sprintf("Quote %s declined", job.ID)
	body := fmt.Sprintf("The quote for %s has been marked declined. No further action is needed.\n", job.ID)
	return subject, body
}

func renderCancelled(job entities.Job) (string, string) {
	subject := fmt.Sprintf("Job %s cancelled", job.ID)
	body := fmt.Sprintf("Job %s has been cancelled.\n", job.ID)
	return subject, body
}

func renderInvoice(inv entities.Invoice) (string, string) {
	due := ""
	if inv.DueDate != nil {
		due = inv.DueDate.Format("2006-01-02")
	}
	subject := fmt.Sprintf("Invoice %s", inv.ID)
	body := fmt.Sprintf(
		"Invoice %s (%s) for job %s:\n\nAmount: %.2f\nTax: %.2f\nTotal: %.2f\nDue: %s\n",
		inv.ID, inv.Type, inv.JobID, inv.Amount, inv.Tax, inv.Total, due)
	return subject, body
}

func renderReceipt(inv entities.Invoice) (string, string) {
	subject := fmt.Sprintf("Payment received — %s", inv.ID)
	body := fmt.Sprintf("We've received your payment of %.2f for invoice %s. Thank you.\n", inv.TotalWithFees, inv.ID)
	return subject, body
}

func renderOverdue(inv entities.Invoice, daysOverdue int) (string, string) {
	subject := fmt.Sprintf("Invoice %s is overdue", inv.ID)
	body := fmt.Sprintf(
		"Invoice %s is %d day(s) overdue.\n\nOriginal total: %.2f\nLate fee: %.2f\nTotal now due: %.2f\n",
		inv.ID, daysOverdue, inv.Total, inv.LateFee, inv.TotalWithFees)
	return subject, body
}
