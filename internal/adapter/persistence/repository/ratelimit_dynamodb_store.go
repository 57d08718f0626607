package repository

import (
	"context"
	"errors"
	"time"

	"cartcure_ops/internal/domain/ratelimit"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultRateLimitsTableName = "rate_limits"

type rateLimitItem struct {
	Identity   string   `dynamodbav:"identity"`
	Timestamps []string `dynamodbav:"timestamps"`
	Version    int64    `dynamodbav:"version"`
	ExpiresAt  int64    `dynamodbav:"expires_at"`
}

// RateLimitDynamoStore backs ratelimit.Limiter with a DynamoDB table keyed by
// identity. Writes are conditioned on the stored version so concurrent
// submitters cannot both be admitted on a stale count; expires_at is meant to
// be wired as the table's TTL attribute so idle windows age out on their own.
type RateLimitDynamoStore struct {
	ddb       *dynamodb.Client
	tableName string
	window    time.Duration
}

var _ ratelimit.Store = (*RateLimitDynamoStore)(nil)

func NewRateLimitDynamoStore(ddb *dynamodb.Client, window time.Duration) *RateLimitDynamoStore {
	return &RateLimitDynamoStore{
		ddb:       ddb,
		tableName: getenvDefault("RATE_LIMITS_TABLE", defaultRateLimitsTableName),
		window:    window,
	}
}

func (s *RateLimitDynamoStore) Get(ctx context.Context, identity string) (ratelimit.Window, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"identity": &types.AttributeValueMemberS{Value: identity},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ratelimit.Window{}, err
	}
	if out.Item == nil {
		return ratelimit.Window{}, nil
	}

	var it rateLimitItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return ratelimit.Window{}, err
	}

	w := ratelimit.Window{Version: it.Version}
	for _, ts := range it.Timestamps {
		w.Timestamps = append(w.Timestamps, stringToTime(ts))
	}
	return w, nil
}

func (s *RateLimitDynamoStore) Put(ctx context.Context, identity string, w ratelimit.Window, expectedVersion int64) error {
	timestamps := make([]string, 0, len(w.Timestamps))
	newest := time.Time{}
	for _, ts := range w.Timestamps {
		timestamps = append(timestamps, timeToString(ts))
		if ts.After(newest) {
			newest = ts
		}
	}

	av, err := attributevalue.MarshalMap(rateLimitItem{
		Identity:   identity,
		Timestamps: timestamps,
		Version:    w.Version,
		ExpiresAt:  newest.Add(s.window).Unix(),
	})
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}
	if expectedVersion == 0 {
		// First write for this identity; a competing first write must lose.
		input.ConditionExpression = aws.String("attribute_not_exists(#identity) OR #version = :expected")
		input.ExpressionAttributeNames = map[string]string{
			"#identity": "identity",
			"#version":  "version",
		}
	} else {
		input.ConditionExpression = aws.String("#version = :expected")
		input.ExpressionAttributeNames = map[string]string{
			"#version": "version",
		}
	}
	input.ExpressionAttributeValues = map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberN{Value: int64ToString(expectedVersion)},
	}

	_, err = s.ddb.PutItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ratelimit.ErrVersionConflict
		}
		return err
	}
	return nil
}
