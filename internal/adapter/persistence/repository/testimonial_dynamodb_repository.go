package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultTestimonialsTableName = "testimonials"

type testimonialItem struct {
	JobID     string `dynamodbav:"job_id"`
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Business  string `dynamodbav:"business,omitempty"`
	Location  string `dynamodbav:"location,omitempty"`
	Rating    int    `dynamodbav:"rating"`
	Body      string `dynamodbav:"body"`
	Approved  bool   `dynamodbav:"approved"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// TestimonialDynamoRepository persists Testimonial entities in DynamoDB.
//
// Table requirements:
//   - PK: job_id (string)
//   - GSI1 (id-index): id
//
// Using job_id as PK makes "one testimonial per job" a store-level condition
// instead of a racy scan-then-insert check.

type TestimonialDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ITestimonialRepository = (*TestimonialDynamoRepository)(nil)

func NewTestimonialDynamoRepository(ddb *dynamodb.Client) *TestimonialDynamoRepository {
	return &TestimonialDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("TESTIMONIALS_TABLE", defaultTestimonialsTableName),
	}
}

func (r *TestimonialDynamoRepository) Create(ctx context.Context, t entities.Testimonial) (entities.Testimonial, error) {
	av, err := attributevalue.MarshalMap(toTestimonialItem(t))
	if err != nil {
		return entities.Testimonial{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#job_id)"),
		ExpressionAttributeNames: map[string]string{
			"#job_id": "job_id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Testimonial{}, interfaces.ErrAlreadyExists
		}
		return entities.Testimonial{}, err
	}
	return t, nil
}

func (r *TestimonialDynamoRepository) GetByID(ctx context.Context, id string) (entities.Testimonial, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("id-index"),
		KeyConditionExpression: aws.String("#tid = :tid"),
		ExpressionAttributeNames: map[string]string{
			"#tid": "id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberS{Value: id},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Testimonial{}, err
	}
	if len(out.Items) == 0 {
		return entities.Testimonial{}, nil
	}

	var it testimonialItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Testimonial{}, err
	}
	return fromTestimonialItem(it), nil
}

func (r *TestimonialDynamoRepository) SetApproved(ctx context.Context, id string, approved bool) (entities.Testimonial, error) {
	// The GSI only carries the id; the write needs the job_id PK.
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return entities.Testimonial{}, err
	}
	if t.ID == "" {
		return entities.Testimonial{}, nil
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: t.JobID},
		},
		ConditionExpression: aws.String("attribute_exists(#job_id)"),
		UpdateExpression:    aws.String("SET #approved = :approved, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":approved":   &types.AttributeValueMemberBOOL{Value: approved},
			":updated_at": &types.AttributeValueMemberS{Value: timeToString(time.Now())},
		},
		ExpressionAttributeNames: map[string]string{
			"#job_id":     "job_id",
			"#approved":   "approved",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Testimonial{}, nil
		}
		return entities.Testimonial{}, err
	}

	var it testimonialItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Testimonial{}, err
	}
	return fromTestimonialItem(it), nil
}

func (r *TestimonialDynamoRepository) ListApproved(ctx context.Context, minRating, limit int) ([]entities.Testimonial, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#approved = :approved AND #rating >= :min_rating"),
		ExpressionAttributeNames: map[string]string{
			"#approved": "approved",
			"#rating":   "rating",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":approved":   &types.AttributeValueMemberBOOL{Value: true},
			":min_rating": &types.AttributeValueMemberN{Value: intToString(minRating)},
		},
	})
	if err != nil {
		return nil, err
	}

	result := make([]entities.Testimonial, 0, len(out.Items))
	for _, item := range out.Items {
		var it testimonialItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		result = append(result, fromTestimonialItem(it))
	}

	// Newest first, capped at limit.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func toTestimonialItem(t entities.Testimonial) testimonialItem {
	return testimonialItem{
		JobID:     t.JobID,
		ID:        t.ID,
		Name:      t.Name,
		Business:  t.Business,
		Location:  t.Location,
		Rating:    t.Rating,
		Body:      t.Body,
		Approved:  t.Approved,
		CreatedAt: timeToString(t.CreatedAt),
		UpdatedAt: timeToString(t.UpdatedAt),
	}
}

func fromTestimonialItem(it testimonialItem) entities.Testimonial {
	return entities.Testimonial{
		ID:        it.ID,
		JobID:     it.JobID,
		Name:      it.Name,
		Business:  it.Business,
		Location:  it.Location,
		Rating:    it.Rating,
		Body:      it.Body,
		Approved:  it.Approved,
		CreatedAt: stringToTime(it.CreatedAt),
		UpdatedAt: stringToTime(it.UpdatedAt),
	}
}
