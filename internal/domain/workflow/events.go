package workflow

// EventType names a side effect a transition wants performed. Transitions
// never send emails or write logs themselves; they return events and the
// service layer dispatches them.

type EventType string

const (
	// EventQuoteReady asks for the quote email with amount/tax/total and
	// the turnaround estimate.
	EventQuoteReady EventType = "quote_ready"

	// EventDepositInvoiceRequired asks for a Deposit invoice of half the
	// job total to be generated and sent.
	EventDepositInvoiceRequired EventType = "deposit_invoice_required"

	// EventJobAccepted asks for the acceptance confirmation with the due
	// date.
	EventJobAccepted EventType = "job_accepted"

	// EventJobCompleted asks for the completion notice and the testimonial
	// request.
	EventJobCompleted EventType = "job_completed"

	// EventJobDeclined and EventJobCancelled ask for the matching notices.
	EventJobDeclined  EventType = "job_declined"
	EventJobCancelled EventType = "job_cancelled"

	// EventInvoiceSent asks for the invoice email with total and due date.
	EventInvoiceSent EventType = "invoice_sent"

	// EventInvoicePaid asks for the receipt email and signals that the
	// linked job's payment status should become Paid.
	EventInvoicePaid EventType = "invoice_paid"

	// EventInvoiceOverdue asks for the late-fee reminder with days overdue,
	// fee and total with fees.
	EventInvoiceOverdue EventType = "invoice_overdue"
)

// Event is the output form of a transition side effect.
type Event struct {
	Type      EventType
	JobID     string
	InvoiceID string
}
