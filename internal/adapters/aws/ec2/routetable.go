package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// RouteTableAdapter disassociates subnet associations before deleting. The
// main-table association cannot be removed; main tables are deleted with
// their VPC and the table delete fails as a dependency if one is targeted
// directly.
type RouteTableAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewRouteTableAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *RouteTableAdapter {
	return &RouteTableAdapter{
		Base:   shared.NewBase(domain.TypeEC2RouteTable, limiter, logger),
		client: client,
	}
}

func (a *RouteTableAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	out, err := a.client.DescribeRouteTables(ctx, &awsec2.DescribeRouteTablesInput{
		RouteTableIds: []string{res.Name},
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}

	for _, rt := range out.RouteTables {
		for _, assoc := range rt.Associations {
			if assoc.Main != nil && *assoc.Main {
				continue
			}
			if assoc.RouteTableAssociationId == nil {
				continue
			}
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			_, err := a.client.DisassociateRouteTable(ctx, &awsec2.DisassociateRouteTableInput{
				AssociationId: assoc.RouteTableAssociationId,
			})
			if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}
	return nil
}

func (a *RouteTableAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteRouteTable(ctx, &awsec2.DeleteRouteTableInput{
		RouteTableId: aws.String(res.Name),
	})
	return err
}
