package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// EBSSnapshotAdapter deletes EBS snapshots. A snapshot backing a registered
// AMI comes back InUse, which classifies as a dependency.
type EBSSnapshotAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewEBSSnapshotAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *EBSSnapshotAdapter {
	return &EBSSnapshotAdapter{
		Base:   shared.NewBase(domain.TypeEC2Snapshot, limiter, logger),
		client: client,
	}
}

func (a *EBSSnapshotAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteSnapshot(ctx, &awsec2.DeleteSnapshotInput{
		SnapshotId: aws.String(res.Name),
	})
	return err
}
