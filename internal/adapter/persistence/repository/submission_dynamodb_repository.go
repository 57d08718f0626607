package repository

import (
	"context"
	"errors"
	"time"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSubmissionsTableName = "submissions"

type submissionItem struct {
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	Email        string `dynamodbav:"email"`
	Phone        string `dynamodbav:"phone,omitempty"`
	StoreURL     string `dynamodbav:"store_url,omitempty"`
	Message      string `dynamodbav:"message,omitempty"`
	VoiceNoteRef string `dynamodbav:"voice_note_ref,omitempty"`
	Status       string `dynamodbav:"status"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

// SubmissionDynamoRepository persists Submission entities in DynamoDB.
//
// Table requirements:
//   - PK: id (the submission number)
//
// The submission number as PK makes the insert-if-absent condition enforce
// retry safety: re-posting the same form token cannot create a second row.

type SubmissionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISubmissionRepository = (*SubmissionDynamoRepository)(nil)

func NewSubmissionDynamoRepository(ddb *dynamodb.Client) *SubmissionDynamoRepository {
	return &SubmissionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SUBMISSIONS_TABLE", defaultSubmissionsTableName),
	}
}

func (r *SubmissionDynamoRepository) Create(ctx context.Context, s entities.Submission) (entities.Submission, error) {
	av, err := attributevalue.MarshalMap(toSubmissionItem(s))
	if err != nil {
		return entities.Submission{}, err
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
			return entities.Submission{}, interfaces.ErrAlreadyExists
		}
		return entities.Submission{}, err
	}
	return s, nil
}

func (r *SubmissionDynamoRepository) GetByID(ctx context.Context, id string) (entities.Submission, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Submission{}, err
	}
	if len(out.Item) == 0 {
		return entities.Submission{}, nil
	}

	var it submissionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Submission{}, err
	}
	return fromSubmissionItem(it), nil
}

func (r *SubmissionDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.SubmissionStatus) (entities.Submission, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: timeToString(time.Now())},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Submission{}, nil
		}
		return entities.Submission{}, err
	}

	var it submissionItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Submission{}, err
	}
	return fromSubmissionItem(it), nil
}

func toSubmissionItem(s entities.Submission) submissionItem {
	return submissionItem{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		StoreURL:     s.StoreURL,
		Message:      s.Message,
		VoiceNoteRef: s.VoiceNoteRef,
		Status:       string(s.Status),
		CreatedAt:    timeToString(s.CreatedAt),
		UpdatedAt:    timeToString(s.UpdatedAt),
	}
}

func fromSubmissionItem(it submissionItem) entities.Submission {
	return entities.Submission{
		ID:           it.ID,
		Name:         it.Name,
		Email:        it.Email,
		Phone:        it.Phone,
		StoreURL:     it.StoreURL,
		Message:      it.Message,
		VoiceNoteRef: it.VoiceNoteRef,
		Status:       entities.SubmissionStatus(it.Status),
		CreatedAt:    stringToTime(it.CreatedAt),
		UpdatedAt:    stringToTime(it.UpdatedAt),
	}
}
