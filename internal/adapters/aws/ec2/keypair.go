package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// KeyPairAdapter deletes key pairs. The API treats deleting an absent key
// pair as success, so this adapter never produces a NotFound skip.
type KeyPairAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewKeyPairAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *KeyPairAdapter {
	return &KeyPairAdapter{
		Base:   shared.NewBase(domain.TypeEC2KeyPair, limiter, logger),
		client: client,
	}
}

func (a *KeyPairAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteKeyPair(ctx, &awsec2.DeleteKeyPairInput{
		KeyName: aws.String(res.Name),
	})
	return err
}
