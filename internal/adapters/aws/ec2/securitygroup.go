package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// SecurityGroupAdapter deletes security groups. A group still referenced by
// an interface or another group's rule fails with DependencyViolation, which
// classifies as a dependency failure and triggers repair.
type SecurityGroupAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewSecurityGroupAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *SecurityGroupAdapter {
	return &SecurityGroupAdapter{
		Base:   shared.NewBase(domain.TypeEC2SecurityGroup, limiter, logger),
		client: client,
	}
}

func (a *SecurityGroupAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteSecurityGroup(ctx, &awsec2.DeleteSecurityGroupInput{
		GroupId: aws.String(res.Name),
	})
	return err
}
