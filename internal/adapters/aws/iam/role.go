package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// RoleAdapter deletes IAM roles. Prepare detaches managed policies, removes
// inline policies and pulls the role out of its instance profiles.
type RoleAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewRoleAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *RoleAdapter {
	return &RoleAdapter{
		Base:   shared.NewBase(domain.TypeIAMRole, limiter, logger),
		client: client,
	}
}

func (a *RoleAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	role := aws.String(res.Name)

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	attached, err := a.client.ListAttachedRolePolicies(ctx, &awsiam.ListAttachedRolePoliciesInput{RoleName: role})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}
	for _, p := range attached.AttachedPolicies {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		if _, err := a.client.DetachRolePolicy(ctx, &awsiam.DetachRolePolicyInput{
			RoleName:  role,
			PolicyArn: p.PolicyArn,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	inline, err := a.client.ListRolePolicies(ctx, &awsiam.ListRolePoliciesInput{RoleName: role})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if inline != nil {
		for _, name := range inline.PolicyNames {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DeleteRolePolicy(ctx, &awsiam.DeleteRolePolicyInput{
				RoleName:   role,
				PolicyName: aws.String(name),
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	profiles, err := a.client.ListInstanceProfilesForRole(ctx, &awsiam.ListInstanceProfilesForRoleInput{RoleName: role})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if profiles != nil {
		for _, p := range profiles.InstanceProfiles {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.RemoveRoleFromInstanceProfile(ctx, &awsiam.RemoveRoleFromInstanceProfileInput{
				RoleName:            role,
				InstanceProfileName: p.InstanceProfileName,
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	return nil
}

func (a *RoleAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteRole(ctx, &awsiam.DeleteRoleInput{
		RoleName: aws.String(res.Name),
	})
	return err
}
