package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// NetworkInterfaceAdapter force-detaches an attached interface in prepare,
// then deletes it. Interfaces managed by another service (NAT gateways,
// load balancers) refuse detachment and fail as dependencies.
type NetworkInterfaceAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewNetworkInterfaceAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *NetworkInterfaceAdapter {
	return &NetworkInterfaceAdapter{
		Base:   shared.NewBase(domain.TypeEC2NetworkInterface, limiter, logger),
		client: client,
	}
}

func (a *NetworkInterfaceAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	out, err := a.client.DescribeNetworkInterfaces(ctx, &awsec2.DescribeNetworkInterfacesInput{
		NetworkInterfaceIds: []string{res.Name},
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}

	for _, eni := range out.NetworkInterfaces {
		if eni.Attachment == nil || eni.Attachment.AttachmentId == nil {
			continue
		}
		if eni.Status == ec2types.NetworkInterfaceStatusAvailable {
			continue
		}
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DetachNetworkInterface(ctx, &awsec2.DetachNetworkInterfaceInput{
			AttachmentId: eni.Attachment.AttachmentId,
			Force:        aws.Bool(true),
		})
		if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}
	return nil
}

func (a *NetworkInterfaceAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteNetworkInterface(ctx, &awsec2.DeleteNetworkInterfaceInput{
		NetworkInterfaceId: aws.String(res.Name),
	})
	return err
}
