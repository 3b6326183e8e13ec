// Package dynamo holds the DynamoDB table deletion adapter.
package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamo "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

const pollInterval = 5 * time.Second

//go:generate mockery --name DynamoClientInterface --output ./mocks --outpkg mocks --case underscore

// DynamoClientInterface defines the SDK methods the table adapter calls.
type DynamoClientInterface interface {
	UpdateTable(ctx context.Context, params *awsdynamo.UpdateTableInput, optFns ...func(*awsdynamo.Options)) (*awsdynamo.UpdateTableOutput, error)
	DeleteTable(ctx context.Context, params *awsdynamo.DeleteTableInput, optFns ...func(*awsdynamo.Options)) (*awsdynamo.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *awsdynamo.DescribeTableInput, optFns ...func(*awsdynamo.Options)) (*awsdynamo.DescribeTableOutput, error)
}

// TableAdapter disables deletion protection in prepare, deletes the table
// and polls until it disappears. A table mid-update reports
// ResourceInUseException, which the retry table treats as a state retry.
type TableAdapter struct {
	shared.Base
	client DynamoClientInterface
}

func NewTableAdapter(client DynamoClientInterface, limiter shared.RateLimiter, logger ports.Logger) *TableAdapter {
	return &TableAdapter{
		Base:   shared.NewBase(domain.TypeDynamoDBTable, limiter, logger),
		client: client,
	}
}

func (a *TableAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.UpdateTable(ctx, &awsdynamo.UpdateTableInput{
		TableName:                 aws.String(res.Name),
		DeletionProtectionEnabled: aws.Bool(false),
	})
	if err != nil && shared.Classify(err) == domain.ErrClassState {
		// Protection already off comes back as a validation-style error;
		// the delete call is the authority on whether the table can go.
		return nil
	}
	return err
}

func (a *TableAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteTable(ctx, &awsdynamo.DeleteTableInput{
		TableName: aws.String(res.Name),
	})
	return err
}

func (a *TableAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DescribeTable(ctx, &awsdynamo.DescribeTableInput{
			TableName: aws.String(res.Name),
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
