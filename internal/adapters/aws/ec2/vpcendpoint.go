package ec2

import (
	"context"
	"fmt"

	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// VPCEndpointAdapter deletes VPC endpoints. The batch API reports per-item
// failures in the response body instead of an error, so a non-empty
// Unsuccessful list is turned back into one.
type VPCEndpointAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewVPCEndpointAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *VPCEndpointAdapter {
	return &VPCEndpointAdapter{
		Base:   shared.NewBase(domain.TypeEC2VPCEndpoint, limiter, logger),
		client: client,
	}
}

func (a *VPCEndpointAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	out, err := a.client.DeleteVpcEndpoints(ctx, &awsec2.DeleteVpcEndpointsInput{
		VpcEndpointIds: []string{res.Name},
	})
	if err != nil {
		return err
	}
	for _, item := range out.Unsuccessful {
		if item.Error == nil {
			continue
		}
		code, msg := "", ""
		if item.Error.Code != nil {
			code = *item.Error.Code
		}
		if item.Error.Message != nil {
			msg = *item.Error.Message
		}
		return fmt.Errorf("delete vpc endpoint %s: %s: %s", res.Name, code, msg)
	}
	return nil
}
