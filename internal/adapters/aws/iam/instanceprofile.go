package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// InstanceProfileAdapter deletes instance profiles after removing every role
// still attached to them.
type InstanceProfileAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewInstanceProfileAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *InstanceProfileAdapter {
	return &InstanceProfileAdapter{
		Base:   shared.NewBase(domain.TypeIAMInstanceProfile, limiter, logger),
		client: client,
	}
}

func (a *InstanceProfileAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	profile := aws.String(res.Name)

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	out, err := a.client.GetInstanceProfile(ctx, &awsiam.GetInstanceProfileInput{InstanceProfileName: profile})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}
	if out.InstanceProfile == nil {
		return nil
	}
	for _, role := range out.InstanceProfile.Roles {
		if role.RoleName == nil {
			continue
		}
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		if _, err := a.client.RemoveRoleFromInstanceProfile(ctx, &awsiam.RemoveRoleFromInstanceProfileInput{
			InstanceProfileName: profile,
			RoleName:            role.RoleName,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}
	return nil
}

func (a *InstanceProfileAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteInstanceProfile(ctx, &awsiam.DeleteInstanceProfileInput{
		InstanceProfileName: aws.String(res.Name),
	})
	return err
}
