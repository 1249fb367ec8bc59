package aws

import (
	"context"
	"errors"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// PublishTimeout bounds a single PutMetricData call, retries included.
const PublishTimeout = 500 * time.Millisecond

// CloudWatchAPI is the subset of the CloudWatch client used here.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisher emits count metrics to CloudWatch. Failures are logged and
// otherwise ignored.
type MetricsPublisher struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
	timeout   time.Duration
	nowFunc   func() time.Time
}

// NewMetricsPublisher returns a publisher writing under namespace.
func NewMetricsPublisher(client CloudWatchAPI, namespace string, logger *zap.Logger) *MetricsPublisher {
	return &MetricsPublisher{
		client:    client,
		namespace: namespace,
		logger:    logger,
		timeout:   PublishTimeout,
		nowFunc:   time.Now,
	}
}

// NewCloudWatchMetrics loads AWS config and builds a publisher backed by a
// real CloudWatch client. The client makes a single attempt per call.
func NewCloudWatchMetrics(ctx context.Context, region, namespace string, logger *zap.Logger) (*MetricsPublisher, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	client := cloudwatch.NewFromConfig(cfg, func(o *cloudwatch.Options) {
		o.RetryMaxAttempts = 1
	})
	return NewMetricsPublisher(client, namespace, logger), nil
}

// Increment adds 1 to the named counter.
func (p *MetricsPublisher) Increment(ctx context.Context, name string) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	input := &cloudwatch.PutMetricDataInput{
		Namespace: &p.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Timestamp:  sdkaws.Time(p.nowFunc()),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
		},
	}

	if _, err := p.client.PutMetricData(ctx, input); err != nil {
		fields := []zap.Field{zap.String("metric", name), zap.Error(err)}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.String("aws_error_code", apiErr.ErrorCode()))
		}
		p.logger.Warn("failed to publish metric", fields...)
	}
}
