package metrics

import (
	"context"
	"log"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/awsx"
)

// Recorder emits workflow outcome counters. Emission is best-effort: a
// metrics failure never affects the workflow result.
type Recorder interface {
	RecordCancellation(ctx context.Context, code string)
}

// CloudWatchRecorder counts cancellation outcomes per result code.
type CloudWatchRecorder struct {
	client    awsx.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewCloudWatchRecorder(client awsx.CloudWatchAPI, namespace string) *CloudWatchRecorder {
	return &CloudWatchRecorder{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

func (r *CloudWatchRecorder) RecordCancellation(ctx context.Context, code string) {
	now := r.nowFunc()
	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &r.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("OrderCancellation"),
				Timestamp:  &now,
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("Code"), Value: sdkaws.String(code)},
				},
			},
		},
	})
	if err != nil {
		log.Printf("[metrics] put metric failed code=%s: %v", code, err)
	}
}

// Noop discards all metrics. Used when no CloudWatch client is configured.
type Noop struct{}

func (Noop) RecordCancellation(context.Context, string) {}
