package interfaces

import (
	"context"

	"cartcure_ops/internal/domain/entities"
)

// ISubmissionRepository abstracts DynamoDB persistence for Submission.
//
// Create must be insert-if-absent on the submission number: a retried form
// post with the same token must not produce a second record.

type ISubmissionRepository interface {
	Create(ctx context.Context, s entities.Submission) (entities.Submission, error)
	GetByID(ctx context.Context, id string) (entities.Submission, error)
	UpdateStatus(ctx context.Context, id string, status entities.SubmissionStatus) (entities.Submission, error)
}
