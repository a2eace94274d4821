package telemetry

import (
	"context"
	"errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/dancavallaro/keybridge/awso"
	"github.com/dancavallaro/keybridge/pkg/bridge"
	"time"
)

const (
	keyDimension = "Key"
	queueSize    = 64
)

type MetricPutter interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

type CloudwatchClientProvider interface {
	Client(ctx context.Context) (MetricPutter, error)
	Invalidate()
}

type awsCloudwatchProvider struct {
	cp *awso.ClientProvider[cloudwatch.Client]
}

func NewCloudwatchProvider(cp *awso.ClientProvider[cloudwatch.Client]) CloudwatchClientProvider {
	return awsCloudwatchProvider{cp}
}

func (p awsCloudwatchProvider) Client(ctx context.Context) (MetricPutter, error) {
	client, err := p.cp.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (p awsCloudwatchProvider) Invalidate() {
	p.cp.Invalidate()
}

// CloudwatchPublisher counts key presses per device and key. Releases are
// not reported. Observe only queues the press; Run does the publishing so
// the bridge loop never waits on AWS.
type CloudwatchPublisher struct {
	cw              CloudwatchClientProvider
	metricNamespace string
	metricName      string
	deviceDimension string
	device          string
	logger          Logger
	retryDelay      time.Duration
	queue           chan bridge.Event
}

func NewCloudwatchPublisher(
	cw CloudwatchClientProvider, metricNamespace string, metricName string, deviceDimension string, device string, logger Logger,
) *CloudwatchPublisher {
	if logger == nil {
		logger = discard{}
	}
	return &CloudwatchPublisher{
		cw:              cw,
		metricNamespace: metricNamespace,
		metricName:      metricName,
		deviceDimension: deviceDimension,
		device:          device,
		logger:          logger,
		retryDelay:      5 * time.Second,
		queue:           make(chan bridge.Event, queueSize),
	}
}

func (pub *CloudwatchPublisher) Observe(_ context.Context, event bridge.Event) {
	if event.Action != bridge.Press {
		return
	}
	select {
	case pub.queue <- event:
	default:
		pub.logger.Printf("Dropping %v press metric, publish queue is full", event.Key)
	}
}

// Run publishes queued presses until ctx is done.
func (pub *CloudwatchPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-pub.queue:
			if err := pub.PublishPress(ctx, event.Key.String(), event.Received); err != nil {
				pub.logger.Printf("Failed to publish %s metric: %v", pub.metricName, err)
			}
		}
	}
}

func (pub *CloudwatchPublisher) PublishPress(ctx context.Context, key string, at time.Time) error {
	if err := pub.publishPress(ctx, key, at); err != nil {
		if !errors.Is(err, awso.ClientInvalidated) {
			return err
		}

		pub.logger.Printf("IAM creds are expired, sleeping for %v then retrying", pub.retryDelay)
		pub.cw.Invalidate()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pub.retryDelay):
		}

		return pub.publishPress(ctx, key, at)
	}
	return nil
}

func (pub *CloudwatchPublisher) publishPress(ctx context.Context, key string, at time.Time) error {
	client, err := pub.cw.Client(ctx)
	if err != nil {
		return err
	}
	_, err = client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(pub.metricNamespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(pub.metricName),
				Dimensions: []types.Dimension{
					{
						Name:  aws.String(pub.deviceDimension),
						Value: aws.String(pub.device),
					},
					{
						Name:  aws.String(keyDimension),
						Value: aws.String(key),
					},
				},
				Timestamp: aws.Time(at),
				Unit:      types.StandardUnitCount,
				Value:     aws.Float64(1),
			},
		},
	})
	return awso.Classify(err)
}
