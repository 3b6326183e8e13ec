package lambdafn

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/log"
)

type stubLambdaClient struct {
	mappings        []lambdatypes.EventSourceMappingConfiguration
	listErr         error
	deletedFns      []string
	deletedMappings []string
}

func (s *stubLambdaClient) ListEventSourceMappings(_ context.Context, _ *awslambda.ListEventSourceMappingsInput, _ ...func(*awslambda.Options)) (*awslambda.ListEventSourceMappingsOutput, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return &awslambda.ListEventSourceMappingsOutput{EventSourceMappings: s.mappings}, nil
}

func (s *stubLambdaClient) DeleteEventSourceMapping(_ context.Context, params *awslambda.DeleteEventSourceMappingInput, _ ...func(*awslambda.Options)) (*awslambda.DeleteEventSourceMappingOutput, error) {
	s.deletedMappings = append(s.deletedMappings, aws.ToString(params.UUID))
	return &awslambda.DeleteEventSourceMappingOutput{}, nil
}

func (s *stubLambdaClient) DeleteFunction(_ context.Context, params *awslambda.DeleteFunctionInput, _ ...func(*awslambda.Options)) (*awslambda.DeleteFunctionOutput, error) {
	s.deletedFns = append(s.deletedFns, aws.ToString(params.FunctionName))
	return &awslambda.DeleteFunctionOutput{}, nil
}

func fnRes() domain.Resource {
	return domain.Resource{
		ARN:    "arn:aws:lambda:us-east-1:111122223333:function:worker",
		Type:   domain.TypeLambdaFunction,
		Name:   "worker",
		Region: "us-east-1",
	}
}

func TestFunctionAdapterListImplicitDependents(t *testing.T) {
	client := &stubLambdaClient{
		mappings: []lambdatypes.EventSourceMappingConfiguration{
			{UUID: aws.String("uuid-1")},
			{UUID: nil},
			{UUID: aws.String("uuid-2")},
		},
	}
	adapter := NewFunctionAdapter(client, nil, log.Nop())

	deps, err := adapter.ListImplicitDependents(context.Background(), fnRes())
	require.NoError(t, err)

	require.Len(t, deps, 2)
	assert.Equal(t, domain.TypeLambdaEventSourceMap, deps[0].Type)
	assert.Equal(t, "uuid-1", deps[0].Name)
	assert.Equal(t, "arn:aws:lambda:us-east-1:111122223333:function:worker/event-source-mapping/uuid-1", deps[0].ARN)
	assert.Equal(t, "us-east-1", deps[0].Region)
}

func TestFunctionAdapterListToleratesMissingFunction(t *testing.T) {
	client := &stubLambdaClient{
		listErr: &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "gone"},
	}
	adapter := NewFunctionAdapter(client, nil, log.Nop())

	deps, err := adapter.ListImplicitDependents(context.Background(), fnRes())
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestFunctionAdapterDelete(t *testing.T) {
	client := &stubLambdaClient{}
	adapter := NewFunctionAdapter(client, nil, log.Nop())

	require.NoError(t, adapter.Delete(context.Background(), fnRes()))
	assert.Equal(t, []string{"worker"}, client.deletedFns)
}

func TestEventSourceMappingAdapterDelete(t *testing.T) {
	client := &stubLambdaClient{}
	adapter := NewEventSourceMappingAdapter(client, nil, log.Nop())

	mapping := domain.Resource{
		ARN:  "arn:aws:lambda:us-east-1:111122223333:function:worker/event-source-mapping/uuid-1",
		Type: domain.TypeLambdaEventSourceMap,
		Name: "uuid-1",
	}
	require.NoError(t, adapter.Delete(context.Background(), mapping))
	assert.Equal(t, []string{"uuid-1"}, client.deletedMappings)
}
