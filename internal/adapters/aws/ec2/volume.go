package ec2

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// VolumeAdapter deletes EBS volumes. An attached volume fails with
// VolumeInUse until its instance is terminated; the retry table handles the
// in-between window as a state retry.
type VolumeAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewVolumeAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *VolumeAdapter {
	return &VolumeAdapter{
		Base:   shared.NewBase(domain.TypeEC2Volume, limiter, logger),
		client: client,
	}
}

func (a *VolumeAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteVolume(ctx, &awsec2.DeleteVolumeInput{
		VolumeId: aws.String(res.Name),
	})
	return err
}

func (a *VolumeAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		out, err := a.client.DescribeVolumes(ctx, &awsec2.DescribeVolumesInput{
			VolumeIds: []string{res.Name},
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}
		if len(out.Volumes) == 0 {
			return nil
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *VolumeAdapter) ClassifyError(err error) domain.ErrorClass {
	if err != nil && shared.Classify(err) == domain.ErrClassUnknown {
		// VolumeInUse surfaces without a dedicated code table entry; it clears
		// once the owning instance finishes terminating.
		if containsCode(err, "VolumeInUse") {
			return domain.ErrClassState
		}
	}
	return shared.Classify(err)
}
