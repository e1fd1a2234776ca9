// Package dynamodb implements the key-value helpers used by the invoicing
// lambdas: typed CRUD on a single table keyed by "identifier", the
// processing-status update and the append-only activity log.
package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "ieutils/pkg/errors"
	"ieutils/pkg/observability"
)

// keyAttribute is the partition key attribute of the event tables
const keyAttribute = "identifier"

// API is the subset of the DynamoDB client used by the store
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store wraps one DynamoDB table
type Store struct {
	api     API
	table   string
	logger  *zap.Logger
	metrics *observability.Recorder
	now     func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithMetrics attaches a CloudWatch recorder; swallowed activity-log
// failures are counted on it
func WithMetrics(recorder *observability.Recorder) StoreOption {
	return func(s *Store) {
		s.metrics = recorder
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store over the given table
func NewStore(api API, table string, logger *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		api:    api,
		table:  table,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logEntry is one element of the log_messages list attribute
type logEntry struct {
	ID          string `dynamodbav:"id"`
	Timestamp   string `dynamodbav:"datetime"`
	Description string `dynamodbav:"description"`
	Payload     string `dynamodbav:"log_object"`
}

func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// GetItem loads the item with the given identifier into out. Comma-ok
// false when no item exists.
func (s *Store) GetItem(ctx context.Context, id string, out any) (bool, error) {
	result, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return false, apperrors.NewDatabaseError("get item", err)
	}
	if result.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, apperrors.NewDatabaseError("unmarshal item", err)
	}
	return true, nil
}

// ItemExists checks whether an item with the given identifier exists
func (s *Store) ItemExists(ctx context.Context, id string) (bool, error) {
	result, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.table),
		Key:                  s.key(id),
		ProjectionExpression: aws.String(keyAttribute),
	})
	if err != nil {
		return false, apperrors.NewDatabaseError("get item", err)
	}
	return result.Item != nil, nil
}

// PutItem writes item to the table
func (s *Store) PutItem(ctx context.Context, item any) error {
	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("marshal item", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      attrs,
	})
	if err != nil {
		return apperrors.NewDatabaseError("put item", err)
	}
	return nil
}

// Scan loads every item matching the filter into out, which must be a
// pointer to a slice. Pagination is followed to the end of the table.
func (s *Store) Scan(ctx context.Context, filter expression.ConditionBuilder, out any) error {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return apperrors.NewDatabaseError("build scan expression", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		result, err := s.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return apperrors.NewDatabaseError("scan", err)
		}
		items = append(items, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return apperrors.NewDatabaseError("unmarshal scan result", err)
	}
	return nil
}

// UpdateStatus records the processing outcome of an event item: status,
// message and the processing timestamp.
func (s *Store) UpdateStatus(ctx context.Context, id, status, message string) error {
	update := expression.
		Set(expression.Name("message"), expression.Value(message)).
		Set(expression.Name("status"), expression.Value(status)).
		Set(expression.Name("processed_at"), expression.Value(s.now().Format(time.RFC3339)))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewDatabaseError("build update expression", err)
	}

	_, err = s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return apperrors.NewDatabaseError("update status", err)
	}
	return nil
}

// AppendLog appends a timestamped entry to the item's log_messages list,
// creating the list on first write. Diagnostics must never fail the
// surrounding operation, so write errors are logged, reported and counted
// instead of returned.
func (s *Store) AppendLog(ctx context.Context, id, description string, payload any) {
	if s.table == "" || id == "" || payload == nil {
		s.logger.Error("Database logging impossible due to missing value",
			zap.String("table", s.table),
			zap.String("key", id),
			zap.String("description", description),
		)
		return
	}

	entry := logEntry{
		ID:          uuid.NewString(),
		Timestamp:   s.now().Format(time.RFC3339),
		Description: description,
		Payload:     renderPayload(payload),
	}

	update := expression.Set(
		expression.Name("log_messages"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("log_messages"), expression.Value([]logEntry{})),
			expression.Value([]logEntry{entry}),
		),
	)

	err := observability.Trace(ctx, "dynamodb.append_log", func(ctx context.Context) error {
		expr, err := expression.NewBuilder().WithUpdate(update).Build()
		if err != nil {
			return err
		}
		_, err = s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.table),
			Key:                       s.key(id),
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		return err
	})
	if err != nil {
		s.logger.Error("Failed to append event log to db",
			zap.String("table", s.table),
			zap.String("key", id),
			zap.String("description", description),
			zap.Error(err),
		)
		observability.CaptureException(err)
		s.metrics.Count(ctx, "DBLogWriteFailed", 1, map[string]string{"Table": s.table})
	}
}

// renderPayload renders a log payload the way it will be stored: JSON when
// possible, the Go string form otherwise.
func renderPayload(payload any) string {
	if data, err := json.Marshal(payload); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", payload)
}
