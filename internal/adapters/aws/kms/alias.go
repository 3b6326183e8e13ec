package kms

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// AliasAdapter deletes key aliases. Aliases are plain name bindings; deleting
// one is synchronous and leaves the key itself untouched.
type AliasAdapter struct {
	shared.Base
	client KMSClientInterface
}

func NewAliasAdapter(client KMSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *AliasAdapter {
	return &AliasAdapter{
		Base:   shared.NewBase(domain.TypeKMSAlias, limiter, logger),
		client: client,
	}
}

func (a *AliasAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteAlias(ctx, &awskms.DeleteAliasInput{
		AliasName: aws.String(res.Name),
	})
	return err
}
