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

const defaultInvoicesTableName = "invoices"

type invoiceItem struct {
	ID            string `dynamodbav:"id"`
	JobID         string `dynamodbav:"job_id"`
	Type          string `dynamodbav:"invoice_type"`
	Status        string `dynamodbav:"status"`
	Amount        string `dynamodbav:"amount"`
	Tax           string `dynamodbav:"tax"`
	Total         string `dynamodbav:"total"`
	DueDate       string `dynamodbav:"due_date,omitempty"`
	SentAt        string `dynamodbav:"sent_at,omitempty"`
	PaidAt        string `dynamodbav:"paid_at,omitempty"`
	PaymentMethod string `dynamodbav:"payment_method,omitempty"`
	PaymentRef    string `dynamodbav:"payment_ref,omitempty"`
	LateFee       string `dynamodbav:"late_fee"`
	TotalWithFees string `dynamodbav:"total_with_fees"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI1 (job_id-index): job_id
//   - GSI2 (status-index): status, feeds the overdue sweep

type InvoiceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
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
			return entities.Invoice{}, interfaces.ErrAlreadyExists
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func (r *InvoiceDynamoRepository) Save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
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
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) ListByJobID(ctx context.Context, jobID string) ([]entities.Invoice, error) {
	return r.query(ctx, "job_id-index", "job_id", jobID)
}

func (r *InvoiceDynamoRepository) ListByStatus(ctx context.Context, status entities.InvoiceStatus) ([]entities.Invoice, error) {
	return r.query(ctx, "status-index", "status", string(status))
}

func (r *InvoiceDynamoRepository) query(ctx context.Context, index, key, value string) ([]entities.Invoice, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#key = :value"),
		ExpressionAttributeNames: map[string]string{
			"#key": key,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return nil, err
	}

	invoices := make([]entities.Invoice, 0, len(out.Items))
	for _, item := range out.Items {
		var it invoiceItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		invoices = append(invoices, fromInvoiceItem(it))
	}
	return invoices, nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:            inv.ID,
		JobID:         inv.JobID,
		Type:          string(inv.Type),
		Status:        string(inv.Status),
		Amount:        floatToString(inv.Amount),
		Tax:           floatToString(inv.Tax),
		Total:         floatToString(inv.Total),
		DueDate:       timePtrToString(inv.DueDate),
		SentAt:        timePtrToString(inv.SentAt),
		PaidAt:        timePtrToString(inv.PaidAt),
		PaymentMethod: inv.PaymentMethod,
		PaymentRef:    inv.PaymentRef,
		LateFee:       floatToString(inv.LateFee),
		TotalWithFees: floatToString(inv.TotalWithFees),
		CreatedAt:     timeToString(inv.CreatedAt),
		UpdatedAt:     timeToString(inv.UpdatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	return entities.Invoice{
		ID:            it.ID,
		JobID:         it.JobID,
		Type:          entities.InvoiceType(it.Type),
		Status:        entities.InvoiceStatus(it.Status),
		Amount:        stringToFloat(it.Amount),
		Tax:           stringToFloat(it.Tax),
		Total:         stringToFloat(it.Total),
		DueDate:       stringToTimePtr(it.DueDate),
		SentAt:        stringToTimePtr(it.SentAt),
		PaidAt:        stringToTimePtr(it.PaidAt),
		PaymentMethod: it.PaymentMethod,
		PaymentRef:    it.PaymentRef,
		LateFee:       stringToFloat(it.LateFee),
		TotalWithFees: stringToFloat(it.TotalWithFees),
		CreatedAt:     stringToTime(it.CreatedAt),
		UpdatedAt:     stringToTime(it.UpdatedAt),
	}
}
