package awso

import (
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// ClientInvalidated marks errors caused by expired credentials. The cached
// client should be dropped with Invalidate and the call retried.
var ClientInvalidated = errors.New("aws client credentials are no longer valid")

var expiredCodes = map[string]bool{
	"ExpiredToken":          true,
	"ExpiredTokenException": true,
	"RequestExpired":        true,
}

type ClientProvider[T any] struct {
	Region      string
	buildClient func(cfg aws.Config) *T
	loadConfig  func(ctx context.Context) (aws.Config, error)
	client      *T
}

func NewClientProvider[T any](region string, buildClient func(cfg aws.Config) *T) *ClientProvider[T] {
	return &ClientProvider[T]{
		Region:      region,
		buildClient: buildClient,
		loadConfig: func(ctx context.Context) (aws.Config, error) {
			return config.LoadDefaultConfig(ctx)
		},
	}
}

func (cp *ClientProvider[T]) Client(ctx context.Context) (*T, error) {
	if cp.client == nil {
		cfg, err := cp.loadConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if cp.Region != "" {
			cfg.Region = cp.Region
		}
		cp.client = cp.buildClient(cfg)
	}
	return cp.client, nil
}

// Invalidate drops the cached client so the next call reloads credentials.
func (cp *ClientProvider[T]) Invalidate() {
	cp.client = nil
}

// Classify wraps err with ClientInvalidated when AWS rejected the request
// because the credentials expired.
func Classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && expiredCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %w", ClientInvalidated, err)
	}
	return err
}

// CallerIdentity returns the ARN the provider's credentials resolve to.
func CallerIdentity(ctx context.Context, cp *ClientProvider[sts.Client]) (string, error) {
	client, err := cp.Client(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", Classify(err)
	}
	return aws.ToString(resp.Arn), nil
}
