package observability

import (
	"context"
	"time"

	"memoir-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchMetrics publishes pipeline counters to CloudWatch
type CloudWatchMetrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewCloudWatchMetrics creates a new CloudWatch metrics publisher
func NewCloudWatchMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordCount emits one count metric tagged with the owning user.
// Delivery failures are logged and swallowed; metrics never fail the
// pipeline.
func (m *CloudWatchMetrics) RecordCount(ctx context.Context, metric string, value float64, userID string) {
	if m.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metric),
				Dimensions: []types.Dimension{
					{
						Name:  aws.String("UserID"),
						Value: aws.String(userID),
					},
				},
				Value:     aws.Float64(value),
				Unit:      types.StandardUnitCount,
				Timestamp: aws.Time(time.Now()),
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to publish metric",
			zap.String("metric", metric),
			zap.Error(err),
		)
	}
}

// NoopMetrics discards every metric. Used when metrics are disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a metrics publisher that does nothing
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// RecordCount discards the metric
func (NoopMetrics) RecordCount(context.Context, string, float64, string) {}

var (
	_ ports.MetricsPublisher = (*CloudWatchMetrics)(nil)
	_ ports.MetricsPublisher = (*NoopMetrics)(nil)
)
