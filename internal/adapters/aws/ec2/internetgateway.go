package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// InternetGatewayAdapter detaches a gateway from its VPC before deleting it.
// An attached gateway cannot be deleted.
type InternetGatewayAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewInternetGatewayAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *InternetGatewayAdapter {
	return &InternetGatewayAdapter{
		Base:   shared.NewBase(domain.TypeEC2InternetGateway, limiter, logger),
		client: client,
	}
}

func (a *InternetGatewayAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	out, err := a.client.DescribeInternetGateways(ctx, &awsec2.DescribeInternetGatewaysInput{
		InternetGatewayIds: []string{res.Name},
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			// Already gone; the delete call reports the idempotent skip.
			return nil
		}
		return err
	}

	for _, igw := range out.InternetGateways {
		for _, att := range igw.Attachments {
			if att.VpcId == nil {
				continue
			}
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			_, err := a.client.DetachInternetGateway(ctx, &awsec2.DetachInternetGatewayInput{
				InternetGatewayId: aws.String(res.Name),
				VpcId:             att.VpcId,
			})
			if err != nil && !containsCode(err, "Gateway.NotAttached") {
				return err
			}
		}
	}
	return nil
}

func (a *InternetGatewayAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteInternetGateway(ctx, &awsec2.DeleteInternetGatewayInput{
		InternetGatewayId: aws.String(res.Name),
	})
	return err
}
