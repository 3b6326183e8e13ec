package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// AddressAdapter releases elastic IP allocations. An address still associated
// with a running resource comes back as AuthFailure or InUse, which classifies
// as a dependency so the orchestrator deletes the holder first.
type AddressAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewAddressAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *AddressAdapter {
	return &AddressAdapter{
		Base:   shared.NewBase(domain.TypeEC2EIP, limiter, logger),
		client: client,
	}
}

func (a *AddressAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.ReleaseAddress(ctx, &awsec2.ReleaseAddressInput{
		AllocationId: aws.String(res.Name),
	})
	return err
}
