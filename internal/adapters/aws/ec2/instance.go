// Package ec2 holds the deletion adapters for EC2 compute and VPC networking
// resource types.
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

const pollInterval = 5 * time.Second

// InstanceAdapter terminates EC2 instances. Termination is asynchronous; the
// await stage polls until the instance reports terminated or disappears.
type InstanceAdapter struct {
	shared.Base
	client EC2ClientInterface
}

func NewInstanceAdapter(client EC2ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *InstanceAdapter {
	return &InstanceAdapter{
		Base:   shared.NewBase(domain.TypeEC2Instance, limiter, logger),
		client: client,
	}
}

// Prepare clears API termination protection so the terminate call cannot be
// rejected for an instance the protection filter already cleared.
func (a *InstanceAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.ModifyInstanceAttribute(ctx, &awsec2.ModifyInstanceAttributeInput{
		InstanceId:            aws.String(res.Name),
		DisableApiTermination: &ec2types.AttributeBooleanValue{Value: aws.Bool(false)},
	})
	return err
}

func (a *InstanceAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.TerminateInstances(ctx, &awsec2.TerminateInstancesInput{
		InstanceIds: []string{res.Name},
	})
	return err
}

func (a *InstanceAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		out, err := a.client.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
			InstanceIds: []string{res.Name},
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}

		terminated := true
		for _, r := range out.Reservations {
			for _, inst := range r.Instances {
				if inst.State == nil || inst.State.Name != ec2types.InstanceStateNameTerminated {
					terminated = false
				}
			}
		}
		if terminated {
			return nil
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
