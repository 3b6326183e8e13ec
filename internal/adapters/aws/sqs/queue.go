// Package sqs holds the queue deletion adapter.
package sqs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name SQSClientInterface --output ./mocks --outpkg mocks --case underscore

// SQSClientInterface defines the SDK methods the queue adapter calls.
type SQSClientInterface interface {
	GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error)
	DeleteQueue(ctx context.Context, params *awssqs.DeleteQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteQueueOutput, error)
}

// QueueAdapter deletes SQS queues. The delete API takes the queue URL, which
// snapshots carry in metadata; when absent it is resolved from the name.
type QueueAdapter struct {
	shared.Base
	client SQSClientInterface
}

func NewQueueAdapter(client SQSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *QueueAdapter {
	return &QueueAdapter{
		Base:   shared.NewBase(domain.TypeSQSQueue, limiter, logger),
		client: client,
	}
}

func (a *QueueAdapter) Delete(ctx context.Context, res domain.Resource) error {
	queueURL, _ := res.Metadata["queue_url"].(string)
	if queueURL == "" {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		out, err := a.client.GetQueueUrl(ctx, &awssqs.GetQueueUrlInput{
			QueueName: aws.String(res.Name),
		})
		if err != nil {
			return err
		}
		queueURL = aws.ToString(out.QueueUrl)
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteQueue(ctx, &awssqs.DeleteQueueInput{
		QueueUrl: aws.String(queueURL),
	})
	return err
}
