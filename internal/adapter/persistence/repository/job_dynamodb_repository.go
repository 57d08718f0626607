package repository

import (
	"context"
	"errors"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultJobsTableName = "jobs"

type jobItem struct {
	ID             string   `dynamodbav:"id"`
	SubmissionID   string   `dynamodbav:"submission_id"`
	Category       string   `dynamodbav:"category,omitempty"`
	Description    string   `dynamodbav:"description,omitempty"`
	Status         string   `dynamodbav:"status"`
	Amount         string   `dynamodbav:"amount"`
	Tax            string   `dynamodbav:"tax"`
	Total          string   `dynamodbav:"total"`
	TurnaroundDays int      `dynamodbav:"turnaround_days"`
	AcceptedAt     string   `dynamodbav:"accepted_at,omitempty"`
	DueDate        string   `dynamodbav:"due_date,omitempty"`
	StartedAt      string   `dynamodbav:"started_at,omitempty"`
	CompletedAt    string   `dynamodbav:"completed_at,omitempty"`
	PaymentStatus  string   `dynamodbav:"payment_status"`
	InvoiceIDs     []string `dynamodbav:"invoice_ids,omitempty"`
	Notes          []string `dynamodbav:"notes,omitempty"`
	CreatedAt      string   `dynamodbav:"created_at"`
	UpdatedAt      string   `dynamodbav:"updated_at"`
}

// JobDynamoRepository persists Job entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI1 (submission_id-index): submission_id
//
// Transitions write whole snapshots, so Save is a full conditional put
// rather than field-level updates.

type JobDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb *dynamodb.Client) *JobDynamoRepository {
	return &JobDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("JOBS_TABLE", defaultJobsTableName),
	}
}

func (r *JobDynamoRepository) Create(ctx context.Context, j entities.Job) (entities.Job, error) {
	av, err := attributevalue.MarshalMap(toJobItem(j))
	if err != nil {
		return entities.Job{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Job{}, interfaces.ErrAlreadyExists
		}
		return entities.Job{}, err
	}
	return j, nil
}

func (r *JobDynamoRepository) GetByID(ctx context.Context, id string) (entities.Job, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Job{}, err
	}
	if len(out.Item) == 0 {
		return entities.Job{}, nil
	}

	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

func (r *JobDynamoRepository) Save(ctx context.Context, j entities.Job) (entities.Job, error) {
	av, err := attributevalue.MarshalMap(toJobItem(j))
	if err != nil {
		return entities.Job{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Job{}, err
	}
	return j, nil
}

func (r *JobDynamoRepository) ListBySubmissionID(ctx context.Context, submissionID string) ([]entities.Job, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("submission_id-index"),
		KeyConditionExpression: aws.String("#submission_id = :submission_id"),
		ExpressionAttributeNames: map[string]string{
			"#submission_id": "submission_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":submission_id": &types.AttributeValueMemberS{Value: submissionID},
		},
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]entities.Job, 0, len(out.Items))
	for _, item := range out.Items {
		var it jobItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		jobs = append(jobs, fromJobItem(it))
	}
	return jobs, nil
}

func toJobItem(j entities.Job) jobItem {
	return jobItem{
		ID:             j.ID,
		SubmissionID:   j.SubmissionID,
		Category:       j.Category,
		Description:    j.Description,
		Status:         string(j.Status),
		Amount:         floatToString(j.Amount),
		Tax:            floatToString(j.Tax),
		Total:          floatToString(j.Total),
		TurnaroundDays: j.TurnaroundDays,
		AcceptedAt:     timePtrToString(j.AcceptedAt),
		DueDate:        timePtrToString(j.DueDate),
		StartedAt:      timePtrToString(j.StartedAt),
		CompletedAt:    timePtrToString(j.CompletedAt),
		PaymentStatus:  string(j.PaymentStatus),
		InvoiceIDs:     j.InvoiceIDs,
		Notes:          j.Notes,
		CreatedAt:      timeToString(j.CreatedAt),
		UpdatedAt:      timeToString(j.UpdatedAt),
	}
}

func fromJobItem(it jobItem) entities.Job {
	return entities.Job{
		ID:             it.ID,
		SubmissionID:   it.SubmissionID,
		Category:       it.Category,
		Description:    it.Description,
		Status:         entities.JobStatus(it.Status),
		Amount:         stringToFloat(it.Amount),
		Tax:            stringToFloat(it.Tax),
		Total:          stringToFloat(it.Total),
		TurnaroundDays: it.TurnaroundDays,
		AcceptedAt:     stringToTimePtr(it.AcceptedAt),
		DueDate:        stringToTimePtr(it.DueDate),
		StartedAt:      stringToTimePtr(it.StartedAt),
		CompletedAt:    stringToTimePtr(it.CompletedAt),
		PaymentStatus:  entities.PaymentStatus(it.PaymentStatus),
		InvoiceIDs:     it.InvoiceIDs,
		Notes:          it.Notes,
		CreatedAt:      stringToTime(it.CreatedAt),
		UpdatedAt:      stringToTime(it.UpdatedAt),
	}
}
