package interfaces

import (
	"context"

	"cartcure_ops/internal/domain/entities"
)

// IInvoiceRepository abstracts DynamoDB persistence for Invoice.
//
// ListByStatus feeds the time-driven overdue sweep; ListByJobID feeds the
// one-deposit/one-balance checks.

type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	ListByJobID(ctx context.Context, jobID string) ([]entities.Invoice, error)
	ListByStatus(ctx context.Context, status entities.InvoiceStatus) ([]entities.Invoice, error)
}
