package interfaces

import (
	"context"

	"cartcure_ops/internal/domain/entities"
)

// IJobRepository abstracts DynamoDB persistence for Job.
//
// Workflow transitions produce whole new snapshots, so writes after Create
// go through Save (full put of an existing item) rather than field-level
// updates.

type IJobRepository interface {
	Create(ctx context.Context, j entities.Job) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	Save(ctx context.Context, j entities.Job) (entities.Job, error)
	ListBySubmissionID(ctx context.Context, submissionID string) ([]entities.Job, error)
}
