package iam

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// UserAdapter deletes IAM users. Access keys created after the snapshot are
// surfaced as implicit dependents at plan time so they appear in the preview;
// remaining inline policies, attachments, group memberships and the login
// profile are stripped in prepare.
type UserAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewUserAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *UserAdapter {
	return &UserAdapter{
		Base:   shared.NewBase(domain.TypeIAMUser, limiter, logger),
		client: client,
	}
}

func (a *UserAdapter) ListImplicitDependents(ctx context.Context, res domain.Resource) ([]domain.Resource, error) {
	if err := a.Throttle(ctx); err != nil {
		return nil, err
	}
	out, err := a.client.ListAccessKeys(ctx, &awsiam.ListAccessKeysInput{
		UserName: aws.String(res.Name),
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil, nil
		}
		return nil, err
	}

	var deps []domain.Resource
	for _, key := range out.AccessKeyMetadata {
		if key.AccessKeyId == nil {
			continue
		}
		deps = append(deps, domain.Resource{
			ARN:    fmt.Sprintf("%s/access-key/%s", res.ARN, *key.AccessKeyId),
			Type:   domain.TypeIAMAccessKey,
			Name:   *key.AccessKeyId,
			Region: res.Region,
			Metadata: map[string]any{
				"user_name": res.Name,
			},
		})
	}
	return deps, nil
}

func (a *UserAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	user := aws.String(res.Name)

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	attached, err := a.client.ListAttachedUserPolicies(ctx, &awsiam.ListAttachedUserPoliciesInput{UserName: user})
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
		if _, err := a.client.DetachUserPolicy(ctx, &awsiam.DetachUserPolicyInput{
			UserName:  user,
			PolicyArn: p.PolicyArn,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	inline, err := a.client.ListUserPolicies(ctx, &awsiam.ListUserPoliciesInput{UserName: user})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if inline != nil {
		for _, name := range inline.PolicyNames {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DeleteUserPolicy(ctx, &awsiam.DeleteUserPolicyInput{
				UserName:   user,
				PolicyName: aws.String(name),
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	groups, err := a.client.ListGroupsForUser(ctx, &awsiam.ListGroupsForUserInput{UserName: user})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if groups != nil {
		for _, g := range groups.Groups {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.RemoveUserFromGroup(ctx, &awsiam.RemoveUserFromGroupInput{
				UserName:  user,
				GroupName: g.GroupName,
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	// Absent login profiles are the common case for service accounts.
	if _, err := a.client.DeleteLoginProfile(ctx, &awsiam.DeleteLoginProfileInput{UserName: user}); err != nil &&
		shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}

	return nil
}

func (a *UserAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteUser(ctx, &awsiam.DeleteUserInput{
		UserName: aws.String(res.Name),
	})
	return err
}
