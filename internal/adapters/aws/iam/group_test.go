package iam

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/log"
)

// stubIAMClient embeds the interface so each test implements only the calls
// its adapter makes.
type stubIAMClient struct {
	IAMClientInterface

	groupUsers    []iamtypes.User
	groupAttached []iamtypes.AttachedPolicy
	groupInline   []string
	profileRoles  []iamtypes.Role

	removedUsers    []string
	detached        []string
	deletedInline   []string
	deletedGroups   []string
	removedRoles    []string
	deletedProfiles []string
}

func (s *stubIAMClient) GetGroup(_ context.Context, _ *awsiam.GetGroupInput, _ ...func(*awsiam.Options)) (*awsiam.GetGroupOutput, error) {
	return &awsiam.GetGroupOutput{Users: s.groupUsers}, nil
}

func (s *stubIAMClient) RemoveUserFromGroup(_ context.Context, params *awsiam.RemoveUserFromGroupInput, _ ...func(*awsiam.Options)) (*awsiam.RemoveUserFromGroupOutput, error) {
	s.removedUsers = append(s.removedUsers, aws.ToString(params.UserName))
	return &awsiam.RemoveUserFromGroupOutput{}, nil
}

func (s *stubIAMClient) ListAttachedGroupPolicies(_ context.Context, _ *awsiam.ListAttachedGroupPoliciesInput, _ ...func(*awsiam.Options)) (*awsiam.ListAttachedGroupPoliciesOutput, error) {
	return &awsiam.ListAttachedGroupPoliciesOutput{AttachedPolicies: s.groupAttached}, nil
}

func (s *stubIAMClient) DetachGroupPolicy(_ context.Context, params *awsiam.DetachGroupPolicyInput, _ ...func(*awsiam.Options)) (*awsiam.DetachGroupPolicyOutput, error) {
	s.detached = append(s.detached, aws.ToString(params.PolicyArn))
	return &awsiam.DetachGroupPolicyOutput{}, nil
}

func (s *stubIAMClient) ListGroupPolicies(_ context.Context, _ *awsiam.ListGroupPoliciesInput, _ ...func(*awsiam.Options)) (*awsiam.ListGroupPoliciesOutput, error) {
	return &awsiam.ListGroupPoliciesOutput{PolicyNames: s.groupInline}, nil
}

func (s *stubIAMClient) DeleteGroupPolicy(_ context.Context, params *awsiam.DeleteGroupPolicyInput, _ ...func(*awsiam.Options)) (*awsiam.DeleteGroupPolicyOutput, error) {
	s.deletedInline = append(s.deletedInline, aws.ToString(params.PolicyName))
	return &awsiam.DeleteGroupPolicyOutput{}, nil
}

func (s *stubIAMClient) DeleteGroup(_ context.Context, params *awsiam.DeleteGroupInput, _ ...func(*awsiam.Options)) (*awsiam.DeleteGroupOutput, error) {
	s.deletedGroups = append(s.deletedGroups, aws.ToString(params.GroupName))
	return &awsiam.DeleteGroupOutput{}, nil
}

func (s *stubIAMClient) GetInstanceProfile(_ context.Context, _ *awsiam.GetInstanceProfileInput, _ ...func(*awsiam.Options)) (*awsiam.GetInstanceProfileOutput, error) {
	return &awsiam.GetInstanceProfileOutput{
		InstanceProfile: &iamtypes.InstanceProfile{Roles: s.profileRoles},
	}, nil
}

func (s *stubIAMClient) RemoveRoleFromInstanceProfile(_ context.Context, params *awsiam.RemoveRoleFromInstanceProfileInput, _ ...func(*awsiam.Options)) (*awsiam.RemoveRoleFromInstanceProfileOutput, error) {
	s.removedRoles = append(s.removedRoles, aws.ToString(params.RoleName))
	return &awsiam.RemoveRoleFromInstanceProfileOutput{}, nil
}

func (s *stubIAMClient) DeleteInstanceProfile(_ context.Context, params *awsiam.DeleteInstanceProfileInput, _ ...func(*awsiam.Options)) (*awsiam.DeleteInstanceProfileOutput, error) {
	s.deletedProfiles = append(s.deletedProfiles, aws.ToString(params.InstanceProfileName))
	return &awsiam.DeleteInstanceProfileOutput{}, nil
}

func TestGroupAdapterStripsMembershipsAndPolicies(t *testing.T) {
	client := &stubIAMClient{
		groupUsers: []iamtypes.User{
			{UserName: aws.String("alice")},
			{UserName: nil},
			{UserName: aws.String("bob")},
		},
		groupAttached: []iamtypes.AttachedPolicy{
			{PolicyArn: aws.String("arn:aws:iam::111122223333:policy/devs")},
		},
		groupInline: []string{"inline-policy"},
	}
	adapter := NewGroupAdapter(client, nil, log.Nop())

	res := domain.Resource{
		ARN:  "arn:aws:iam::111122223333:group/devs",
		Type: domain.TypeIAMGroup,
		Name: "devs",
	}
	require.NoError(t, adapter.Prepare(context.Background(), res))
	assert.Equal(t, []string{"alice", "bob"}, client.removedUsers)
	assert.Equal(t, []string{"arn:aws:iam::111122223333:policy/devs"}, client.detached)
	assert.Equal(t, []string{"inline-policy"}, client.deletedInline)

	require.NoError(t, adapter.Delete(context.Background(), res))
	assert.Equal(t, []string{"devs"}, client.deletedGroups)
}

func TestInstanceProfileAdapterRemovesRolesFirst(t *testing.T) {
	client := &stubIAMClient{
		profileRoles: []iamtypes.Role{
			{RoleName: aws.String("app-role")},
		},
	}
	adapter := NewInstanceProfileAdapter(client, nil, log.Nop())

	res := domain.Resource{
		ARN:  "arn:aws:iam::111122223333:instance-profile/app",
		Type: domain.TypeIAMInstanceProfile,
		Name: "app",
	}
	require.NoError(t, adapter.Prepare(context.Background(), res))
	assert.Equal(t, []string{"app-role"}, client.removedRoles)

	require.NoError(t, adapter.Delete(context.Background(), res))
	assert.Equal(t, []string{"app"}, client.deletedProfiles)
}
