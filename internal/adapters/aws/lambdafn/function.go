// Package lambdafn holds the Lambda function deletion adapter. The package
// name avoids shadowing the SDK's lambda package.
package lambdafn

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name LambdaClientInterface --output ./mocks --outpkg mocks --case underscore

// LambdaClientInterface defines the SDK methods the function adapter calls.
type LambdaClientInterface interface {
	ListEventSourceMappings(ctx context.Context, params *awslambda.ListEventSourceMappingsInput, optFns ...func(*awslambda.Options)) (*awslambda.ListEventSourceMappingsOutput, error)
	DeleteEventSourceMapping(ctx context.Context, params *awslambda.DeleteEventSourceMappingInput, optFns ...func(*awslambda.Options)) (*awslambda.DeleteEventSourceMappingOutput, error)
	DeleteFunction(ctx context.Context, params *awslambda.DeleteFunctionInput, optFns ...func(*awslambda.Options)) (*awslambda.DeleteFunctionOutput, error)
}

// FunctionAdapter deletes Lambda functions. Event source mappings are
// surfaced as implicit dependents so they are deleted, and audited, before
// the function itself.
type FunctionAdapter struct {
	shared.Base
	client LambdaClientInterface
}

func NewFunctionAdapter(client LambdaClientInterface, limiter shared.RateLimiter, logger ports.Logger) *FunctionAdapter {
	return &FunctionAdapter{
		Base:   shared.NewBase(domain.TypeLambdaFunction, limiter, logger),
		client: client,
	}
}

func (a *FunctionAdapter) ListImplicitDependents(ctx context.Context, res domain.Resource) ([]domain.Resource, error) {
	if err := a.Throttle(ctx); err != nil {
		return nil, err
	}
	out, err := a.client.ListEventSourceMappings(ctx, &awslambda.ListEventSourceMappingsInput{
		FunctionName: aws.String(res.Name),
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil, nil
		}
		return nil, err
	}

	var deps []domain.Resource
	for _, m := range out.EventSourceMappings {
		if m.UUID == nil {
			continue
		}
		deps = append(deps, domain.Resource{
			ARN:    fmt.Sprintf("%s/event-source-mapping/%s", res.ARN, *m.UUID),
			Type:   domain.TypeLambdaEventSourceMap,
			Name:   *m.UUID,
			Region: res.Region,
		})
	}
	return deps, nil
}

func (a *FunctionAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteFunction(ctx, &awslambda.DeleteFunctionInput{
		FunctionName: aws.String(res.Name),
	})
	return err
}

// EventSourceMappingAdapter deletes the mappings the function adapter
// synthesizes.
type EventSourceMappingAdapter struct {
	shared.Base
	client LambdaClientInterface
}

func NewEventSourceMappingAdapter(client LambdaClientInterface, limiter shared.RateLimiter, logger ports.Logger) *EventSourceMappingAdapter {
	return &EventSourceMappingAdapter{
		Base:   shared.NewBase(domain.TypeLambdaEventSourceMap, limiter, logger),
		client: client,
	}
}

func (a *EventSourceMappingAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteEventSourceMapping(ctx, &awslambda.DeleteEventSourceMappingInput{
		UUID: aws.String(res.Name),
	})
	return err
}
