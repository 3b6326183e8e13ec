package ec2

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// NatGatewayAdapter deletes NAT gateways. Deletion is asynchronous; the await
// stage polls until the gateway reports deleted or disappears. Its elastic IP
// stays allocated and is released by its own candidate.
type NatGatewayAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewNatGatewayAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *NatGatewayAdapter {
	return &NatGatewayAdapter{
		Base:   shared.NewBase(domain.TypeEC2NatGateway, limiter, logger),
		client: client,
	}
}

func (a *NatGatewayAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteNatGateway(ctx, &awsec2.DeleteNatGatewayInput{
		NatGatewayId: aws.String(res.Name),
	})
	return err
}

func (a *NatGatewayAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		out, err := a.client.DescribeNatGateways(ctx, &awsec2.DescribeNatGatewaysInput{
			NatGatewayIds: []string{res.Name},
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}

		deleted := true
		for _, gw := range out.NatGateways {
			if gw.State != ec2types.NatGatewayStateDeleted {
				deleted = false
			}
		}
		if deleted {
			return nil
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
