// Package secrets holds the Secrets Manager deletion adapter.
package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssecrets "github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name SecretsClientInterface --output ./mocks --outpkg mocks --case underscore

// SecretsClientInterface defines the SDK methods the secret adapter calls.
type SecretsClientInterface interface {
	DeleteSecret(ctx context.Context, params *awssecrets.DeleteSecretInput, optFns ...func(*awssecrets.Options)) (*awssecrets.DeleteSecretOutput, error)
}

// SecretAdapter deletes secrets without the recovery window. A secret
// created after the snapshot should not have existed; keeping it recoverable
// for thirty days would leave it resolvable by its consumers.
type SecretAdapter struct {
	shared.Base
	client SecretsClientInterface
}

func NewSecretAdapter(client SecretsClientInterface, limiter shared.RateLimiter, logger ports.Logger) *SecretAdapter {
	return &SecretAdapter{
		Base:   shared.NewBase(domain.TypeSecretsManagerSecret, limiter, logger),
		client: client,
	}
}

func (a *SecretAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteSecret(ctx, &awssecrets.DeleteSecretInput{
		SecretId:                   aws.String(res.ARN),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	return err
}
