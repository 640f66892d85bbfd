package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/derekensign/mls-fantasy-sub000/internal/platform/resilience"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the repositories.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the DynamoDB tables backing each repository.
type Tables struct {
	Draft   string
	Roster  string
	Players string
	Teams   string
}

// breakerClient routes every call through a circuit breaker. Failed write
// conditions are business outcomes and do not count against the dependency.
type breakerClient struct {
	next    DynamoDBAPI
	breaker *resilience.CircuitBreaker
}

// WithCircuitBreaker wraps client unless cfg is disabled.
func WithCircuitBreaker(client DynamoDBAPI, cfg resilience.CircuitBreakerConfig) DynamoDBAPI {
	if !cfg.Enabled {
		return client
	}

	return &breakerClient{
		next:    client,
		breaker: resilience.NewCircuitBreaker("dynamodb", cfg, isCircuitFailure),
	}
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		return false
	}
	var conditional *types.ConditionalCheckFailedException
	return !errors.As(err, &conditional)
}

func (c *breakerClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (out *dynamodb.GetItemOutput, err error) {
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err = c.next.GetItem(ctx, params, optFns...)
		return err
	})
	return out, err
}

func (c *breakerClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (out *dynamodb.QueryOutput, err error) {
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err = c.next.Query(ctx, params, optFns...)
		return err
	})
	return out, err
}

func (c *breakerClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (out *dynamodb.ScanOutput, err error) {
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err = c.next.Scan(ctx, params, optFns...)
		return err
	})
	return out, err
}

func (c *breakerClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (out *dynamodb.BatchWriteItemOutput, err error) {
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err = c.next.BatchWriteItem(ctx, params, optFns...)
		return err
	})
	return out, err
}

func (c *breakerClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (out *dynamodb.TransactWriteItemsOutput, err error) {
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err = c.next.TransactWriteItems(ctx, params, optFns...)
		return err
	})
	return out, err
}
