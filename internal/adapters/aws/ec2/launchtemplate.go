package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// LaunchTemplateAdapter deletes launch templates, all versions at once.
type LaunchTemplateAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewLaunchTemplateAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *LaunchTemplateAdapter {
	return &LaunchTemplateAdapter{
		Base:   shared.NewBase(domain.TypeEC2LaunchTemplate, limiter, logger),
		client: client,
	}
}

func (a *LaunchTemplateAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteLaunchTemplate(ctx, &awsec2.DeleteLaunchTemplateInput{
		LaunchTemplateId: aws.String(res.Name),
	})
	return err
}
