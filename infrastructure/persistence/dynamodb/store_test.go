package dynamodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ddb "ieutils/infrastructure/persistence/dynamodb"
	"ieutils/pkg/observability"
)

type mockAPI struct {
	getInputs    []*sdk.GetItemInput
	getOutput    *sdk.GetItemOutput
	getErr       error
	putInputs    []*sdk.PutItemInput
	putErr       error
	updateInputs []*sdk.UpdateItemInput
	updateErr    error
	scanInputs   []*sdk.ScanInput
	scanOutputs  []*sdk.ScanOutput
}

func (m *mockAPI) GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	m.getInputs = append(m.getInputs, params)
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOutput != nil {
		return m.getOutput, nil
	}
	return &sdk.GetItemOutput{}, nil
}

func (m *mockAPI) PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	m.putInputs = append(m.putInputs, params)
	return &sdk.PutItemOutput{}, m.putErr
}

func (m *mockAPI) UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	m.updateInputs = append(m.updateInputs, params)
	return &sdk.UpdateItemOutput{}, m.updateErr
}

func (m *mockAPI) Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	m.scanInputs = append(m.scanInputs, params)
	out := m.scanOutputs[0]
	m.scanOutputs = m.scanOutputs[1:]
	return out, nil
}

type mockMetricsAPI struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockMetricsAPI) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

type eventItem struct {
	Identifier string `dynamodbav:"identifier"`
	Status     string `dynamodbav:"status"`
	Total      int    `dynamodbav:"total"`
}

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2019-04-01T10:30:00Z")
	require.NoError(t, err)
	return ts
}

func TestStore_GetItem(t *testing.T) {
	api := &mockAPI{
		getOutput: &sdk.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"identifier": &types.AttributeValueMemberS{Value: "evt-1"},
				"status":     &types.AttributeValueMemberS{Value: "processed"},
				"total":      &types.AttributeValueMemberN{Value: "42"},
			},
		},
	}
	store := ddb.NewStore(api, "events", zap.NewNop())

	var item eventItem
	found, err := store.GetItem(context.Background(), "evt-1", &item)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, eventItem{Identifier: "evt-1", Status: "processed", Total: 42}, item)

	require.Len(t, api.getInputs, 1)
	assert.Equal(t, "events", aws.ToString(api.getInputs[0].TableName))
	key, ok := api.getInputs[0].Key["identifier"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "evt-1", key.Value)
}

func TestStore_GetItem_Missing(t *testing.T) {
	store := ddb.NewStore(&mockAPI{}, "events", zap.NewNop())

	var item eventItem
	found, err := store.GetItem(context.Background(), "evt-404", &item)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_ItemExists(t *testing.T) {
	api := &mockAPI{
		getOutput: &sdk.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"identifier": &types.AttributeValueMemberS{Value: "evt-1"},
			},
		},
	}
	store := ddb.NewStore(api, "events", zap.NewNop())

	exists, err := store.ItemExists(context.Background(), "evt-1")

	require.NoError(t, err)
	assert.True(t, exists)
	// Existence checks should not fetch the whole item
	assert.Equal(t, "identifier", aws.ToString(api.getInputs[0].ProjectionExpression))
}

func TestStore_PutItem(t *testing.T) {
	api := &mockAPI{}
	store := ddb.NewStore(api, "events", zap.NewNop())

	err := store.PutItem(context.Background(), eventItem{Identifier: "evt-2", Status: "pending"})

	require.NoError(t, err)
	require.Len(t, api.putInputs, 1)
	id, ok := api.putInputs[0].Item["identifier"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "evt-2", id.Value)
}

func TestStore_Scan_Paginates(t *testing.T) {
	api := &mockAPI{
		scanOutputs: []*sdk.ScanOutput{
			{
				Items: []map[string]types.AttributeValue{
					{"identifier": &types.AttributeValueMemberS{Value: "evt-1"}},
				},
				LastEvaluatedKey: map[string]types.AttributeValue{
					"identifier": &types.AttributeValueMemberS{Value: "evt-1"},
				},
			},
			{
				Items: []map[string]types.AttributeValue{
					{"identifier": &types.AttributeValueMemberS{Value: "evt-2"}},
				},
			},
		},
	}
	store := ddb.NewStore(api, "events", zap.NewNop())

	var items []eventItem
	filter := expression.Name("status").Equal(expression.Value("pending"))
	err := store.Scan(context.Background(), filter, &items)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "evt-1", items[0].Identifier)
	assert.Equal(t, "evt-2", items[1].Identifier)

	require.Len(t, api.scanInputs, 2)
	assert.Nil(t, api.scanInputs[0].ExclusiveStartKey)
	assert.NotNil(t, api.scanInputs[1].ExclusiveStartKey)
}

func TestStore_UpdateStatus(t *testing.T) {
	api := &mockAPI{}
	now := fixedTime(t)
	store := ddb.NewStore(api, "events", zap.NewNop(),
		ddb.WithClock(func() time.Time { return now }))

	err := store.UpdateStatus(context.Background(), "evt-1", "failed", "boom")

	require.NoError(t, err)
	require.Len(t, api.updateInputs, 1)
	input := api.updateInputs[0]

	names := make([]string, 0, len(input.ExpressionAttributeNames))
	for _, name := range input.ExpressionAttributeNames {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"message", "status", "processed_at"}, names)

	values := make([]string, 0, len(input.ExpressionAttributeValues))
	for _, value := range input.ExpressionAttributeValues {
		if s, ok := value.(*types.AttributeValueMemberS); ok {
			values = append(values, s.Value)
		}
	}
	assert.Contains(t, values, "failed")
	assert.Contains(t, values, "boom")
	assert.Contains(t, values, now.Format(time.RFC3339))
}

func TestStore_AppendLog(t *testing.T) {
	api := &mockAPI{}
	store := ddb.NewStore(api, "events", zap.NewNop())

	store.AppendLog(context.Background(), "evt-1", "lambda invoked", map[string]string{"source": "s3"})

	require.Len(t, api.updateInputs, 1)
	expr := aws.ToString(api.updateInputs[0].UpdateExpression)
	assert.Contains(t, expr, "list_append")
	assert.Contains(t, expr, "if_not_exists")
}

func TestStore_AppendLog_MissingKey(t *testing.T) {
	api := &mockAPI{}
	store := ddb.NewStore(api, "events", zap.NewNop())

	store.AppendLog(context.Background(), "", "lambda invoked", map[string]string{"source": "s3"})

	assert.Empty(t, api.updateInputs)
}

func TestStore_AppendLog_MissingTable(t *testing.T) {
	api := &mockAPI{}
	store := ddb.NewStore(api, "", zap.NewNop())

	store.AppendLog(context.Background(), "item-1", "lambda invoked", map[string]string{"source": "s3"})

	assert.Empty(t, api.updateInputs)
}

func TestStore_AppendLog_SwallowsWriteFailure(t *testing.T) {
	api := &mockAPI{updateErr: assert.AnError}
	metricsAPI := &mockMetricsAPI{}
	recorder := observability.NewRecorder(metricsAPI, "test", zap.NewNop())
	store := ddb.NewStore(api, "events", zap.NewNop(), ddb.WithMetrics(recorder))

	// Must not panic or surface the write failure
	store.AppendLog(context.Background(), "evt-1", "lambda invoked", map[string]string{"source": "s3"})

	require.Len(t, metricsAPI.inputs, 1)
	assert.Equal(t, "test", aws.ToString(metricsAPI.inputs[0].Namespace))
	assert.Equal(t, "DBLogWriteFailed", aws.ToString(metricsAPI.inputs[0].MetricData[0].MetricName))
}
