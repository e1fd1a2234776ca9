package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsAPI is the subset of the CloudWatch client used by the recorder
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Recorder publishes counter metrics to CloudWatch. A nil *Recorder is a
// valid no-op, so callers that do not care about metrics can pass nil.
type Recorder struct {
	api       MetricsAPI
	namespace string
	logger    *zap.Logger
}

// NewRecorder creates a CloudWatch metrics recorder
func NewRecorder(api MetricsAPI, namespace string, logger *zap.Logger) *Recorder {
	return &Recorder{
		api:       api,
		namespace: namespace,
		logger:    logger,
	}
}

// Count publishes a counter datum. Failures are logged and swallowed;
// metrics must never break the calling operation.
func (r *Recorder) Count(ctx context.Context, name string, value float64, dimensions map[string]string) {
	if r == nil {
		return
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := r.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       types.StandardUnitCount,
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		r.logger.Warn("Failed to publish metric",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}
