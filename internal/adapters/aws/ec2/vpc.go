package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// VPCAdapter deletes VPCs. Subnets, gateways and interfaces inside the VPC
// sit in earlier tiers, so a correctly ordered run reaches the VPC last;
// anything missed surfaces as DependencyViolation and repair.
type VPCAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewVPCAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *VPCAdapter {
	return &VPCAdapter{
		Base:   shared.NewBase(domain.TypeEC2VPC, limiter, logger),
		client: client,
	}
}

func (a *VPCAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteVpc(ctx, &awsec2.DeleteVpcInput{
		VpcId: aws.String(res.Name),
	})
	return err
}
