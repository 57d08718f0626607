package interfaces

import "context"

// Notification is one outbound email, already rendered. Template variables
// are exactly the fields the pricing/SLA/workflow functions return.
type Notification struct {
	To      []string
	Subject string
	Body    string
}

// INotificationGateway abstracts email delivery (SMTP in production). A nil
// or disabled gateway drops notifications silently; workflow state never
// depends on delivery.
type INotificationGateway interface {
	Send(ctx context.Context, n Notification) error
}
