// Package sns holds deletion adapters for SNS topics and subscriptions.
package sns

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name SNSClientInterface --output ./mocks --outpkg mocks --case underscore

// SNSClientInterface defines the SDK methods the SNS adapters call.
type SNSClientInterface interface {
	DeleteTopic(ctx context.Context, params *awssns.DeleteTopicInput, optFns ...func(*awssns.Options)) (*awssns.DeleteTopicOutput, error)
	Unsubscribe(ctx context.Context, params *awssns.UnsubscribeInput, optFns ...func(*awssns.Options)) (*awssns.UnsubscribeOutput, error)
}

// TopicAdapter deletes topics. SNS removes a topic's subscriptions with it,
// so subscriptions only appear as separate candidates when the diff names
// them directly.
type TopicAdapter struct {
	shared.Base
	client SNSClientInterface
}

func NewTopicAdapter(client SNSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *TopicAdapter {
	return &TopicAdapter{
		Base:   shared.NewBase(domain.TypeSNSTopic, limiter, logger),
		client: client,
	}
}

func (a *TopicAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteTopic(ctx, &awssns.DeleteTopicInput{
		TopicArn: aws.String(res.ARN),
	})
	return err
}

// SubscriptionAdapter unsubscribes individual subscriptions.
type SubscriptionAdapter struct {
	shared.Base
	client SNSClientInterface
}

func NewSubscriptionAdapter(client SNSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *SubscriptionAdapter {
	return &SubscriptionAdapter{
		Base:   shared.NewBase(domain.TypeSNSSubscription, limiter, logger),
		client: client,
	}
}

func (a *SubscriptionAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.Unsubscribe(ctx, &awssns.UnsubscribeInput{
		SubscriptionArn: aws.String(res.ARN),
	})
	return err
}
