package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// GroupAdapter deletes IAM groups. A group cannot be deleted while it has
// members or policies, so prepare strips both.
type GroupAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewGroupAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *GroupAdapter {
	return &GroupAdapter{
		Base:   shared.NewBase(domain.TypeIAMGroup, limiter, logger),
		client: client,
	}
}

func (a *GroupAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	group := aws.String(res.Name)

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	members, err := a.client.GetGroup(ctx, &awsiam.GetGroupInput{GroupName: group})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil
		}
		return err
	}
	for _, u := range members.Users {
		if u.UserName == nil {
			continue
		}
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		if _, err := a.client.RemoveUserFromGroup(ctx, &awsiam.RemoveUserFromGroupInput{
			GroupName: group,
			UserName:  u.UserName,
		}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
			return err
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	attached, err := a.client.ListAttachedGroupPolicies(ctx, &awsiam.ListAttachedGroupPoliciesInput{GroupName: group})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if attached != nil {
		for _, p := range attached.AttachedPolicies {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DetachGroupPolicy(ctx, &awsiam.DetachGroupPolicyInput{
				GroupName: group,
				PolicyArn: p.PolicyArn,
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	inline, err := a.client.ListGroupPolicies(ctx, &awsiam.ListGroupPoliciesInput{GroupName: group})
	if err != nil && shared.Classify(err) != domain.ErrClassNotFound {
		return err
	}
	if inline != nil {
		for _, name := range inline.PolicyNames {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DeleteGroupPolicy(ctx, &awsiam.DeleteGroupPolicyInput{
				GroupName:  group,
				PolicyName: aws.String(name),
			}); err != nil && shared.Classify(err) != domain.ErrClassNotFound {
				return err
			}
		}
	}
	return nil
}

func (a *GroupAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteGroup(ctx, &awsiam.DeleteGroupInput{
		GroupName: aws.String(res.Name),
	})
	return err
}
