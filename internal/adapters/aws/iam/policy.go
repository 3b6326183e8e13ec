package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// PolicyAdapter deletes customer-managed policies. AWS-managed policies are
// rejected upstream by the protection filter. Prepare detaches the policy
// from every entity and removes all non-default versions; the delete call
// removes the default version with the policy.
type PolicyAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewPolicyAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *PolicyAdapter {
	return &PolicyAdapter{
		Base:   shared.NewBase(domain.TypeIAMPolicy, limiter, logger),
		client: client,
	}
}

func (a *PolicyAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	policyArn := aws.String(res.ARN)

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	entities, err := a.client.ListEntitiesForPolicy(ctx, &awsiam.ListEntitiesForPolicyInput{PolicyArn: policyArn})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}
	for _, u := range entities.PolicyUsers {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		if _, err := a.client.DetachUserPolicy(ctx, &awsiam.DetachUserPolicyInput{
			UserName:  u.UserName,
			PolicyArn: policyArn,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}
	for _, r := range entities.PolicyRoles {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		if _, err := a.client.DetachRolePolicy(ctx, &awsiam.DetachRolePolicyInput{
			RoleName:  r.RoleName,
			PolicyArn: policyArn,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	versions, err := a.client.ListPolicyVersions(ctx, &awsiam.ListPolicyVersionsInput{PolicyArn: policyArn})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if versions != nil {
		for _, v := range versions.Versions {
			if v.IsDefaultVersion {
				continue
			}
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DeletePolicyVersion(ctx, &awsiam.DeletePolicyVersionInput{
				PolicyArn: policyArn,
				VersionId: v.VersionId,
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	return nil
}

func (a *PolicyAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeletePolicy(ctx, &awsiam.DeletePolicyInput{
		PolicyArn: aws.String(res.ARN),
	})
	return err
}
