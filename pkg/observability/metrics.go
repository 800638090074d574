package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics records operational metrics to CloudWatch. A nil client disables
// recording, so callers never need to branch on configuration.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a metrics recorder. client may be nil.
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{client: client, namespace: namespace, logger: logger}
}

// RecordDuration publishes an operation latency in milliseconds
func (m *Metrics) RecordDuration(ctx context.Context, name string, d time.Duration, dimensions map[string]string) {
	m.put(ctx, name, float64(d.Milliseconds()), cwtypes.StandardUnitMilliseconds, dimensions)
}

// RecordCount publishes a counter value
func (m *Metrics) RecordCount(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, cwtypes.StandardUnitCount, dimensions)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit cwtypes.StandardUnit, dimensions map[string]string) {
	if m.client == nil {
		return
	}
	dims := make([]cwtypes.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, cwtypes.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil && m.logger != nil {
		// Metric loss is tolerable; never fail the operation over it.
		m.logger.Warn("failed to put metric", zap.String("metric", name), zap.Error(err))
	}
}
