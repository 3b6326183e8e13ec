package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

type SubnetAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewSubnetAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *SubnetAdapter {
	return &SubnetAdapter{
		Base:   shared.NewBase(domain.TypeEC2Subnet, limiter, logger),
		client: client,
	}
}

func (a *SubnetAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteSubnet(ctx, &awsec2.DeleteSubnetInput{
		SubnetId: aws.String(res.Name),
	})
	return err
}
