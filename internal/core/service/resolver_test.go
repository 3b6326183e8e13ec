package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

func newTestRegistry(t *testing.T, adapters ...*fakeAdapter) *AdapterRegistry {
	t.Helper()
	registry := NewAdapterRegistry()
	for _, a := range adapters {
		require.NoError(t, registry.Register(a))
	}
	return registry
}

func TestResolverTiersAndEdges(t *testing.T) {
	registry := newTestRegistry(t,
		newFakeAdapter(domain.TypeEC2Instance),
		newFakeAdapter(domain.TypeEC2Subnet),
		newFakeAdapter(domain.TypeEC2VPC),
	)
	r := NewResolver(registry, &fakeChecker{}, testLogger())

	vpc := mkRes("arn:aws:ec2:us-east-1:1:vpc/vpc-1", domain.TypeEC2VPC)
	subnet := mkRes("arn:aws:ec2:us-east-1:1:subnet/sub-1", domain.TypeEC2Subnet)
	subnet.References = []string{vpc.ARN}
	inst := mkRes("arn:aws:ec2:us-east-1:1:instance/i-1", domain.TypeEC2Instance)
	inst.References = []string{subnet.ARN}

	resolution, err := r.Resolve(context.Background(), []domain.Resource{vpc, subnet, inst})
	require.NoError(t, err)

	require.Len(t, resolution.Candidates, 3)
	byARN := map[string]*domain.DeletionCandidate{}
	for _, c := range resolution.Candidates {
		byARN[c.Resource.ARN] = c
	}
	assert.Equal(t, domain.TierCompute, byARN[inst.ARN].Tier)
	assert.Equal(t, domain.TierNetwork, byARN[subnet.ARN].Tier)
	assert.Equal(t, domain.TierNetwork, byARN[vpc.ARN].Tier)

	// Referencing resource precedes the referenced one.
	assert.Contains(t, resolution.Edges, domain.DependencyEdge{From: byARN[subnet.ARN].ID, To: byARN[vpc.ARN].ID})
	assert.Contains(t, resolution.Edges, domain.DependencyEdge{From: byARN[inst.ARN].ID, To: byARN[subnet.ARN].ID})
}

func TestResolverUnknownTypeAbortsPlan(t *testing.T) {
	registry := newTestRegistry(t, newFakeAdapter(domain.TypeEC2Instance))
	r := NewResolver(registry, &fakeChecker{}, testLogger())

	unknown := mkRes("arn:aws:custom:us-east-1:1:widget/w-1", domain.ResourceType("AWS::Custom::Widget"))

	_, err := r.Resolve(context.Background(), []domain.Resource{unknown})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnknownResourceType))
}

func TestResolverMissingAdapterAbortsPlan(t *testing.T) {
	registry := newTestRegistry(t, newFakeAdapter(domain.TypeEC2Instance))
	r := NewResolver(registry, &fakeChecker{}, testLogger())

	// Known tier, but no adapter registered for it.
	bucket := mkRes("arn:aws:s3:::b-1", domain.TypeS3Bucket)

	_, err := r.Resolve(context.Background(), []domain.Resource{bucket})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnknownResourceType))
}

func TestResolverImplicitDependents(t *testing.T) {
	key := mkRes("arn:aws:iam::1:user/alice/access-key/AKIA123", domain.TypeIAMAccessKey)

	userAdapter := newFakeAdapter(domain.TypeIAMUser)
	userAdapter.implicitFn = func(context.Context, domain.Resource) ([]domain.Resource, error) {
		return []domain.Resource{key}, nil
	}

	t.Run("unlisted dependent becomes synthetic candidate in owner tier", func(t *testing.T) {
		registry := newTestRegistry(t, userAdapter, newFakeAdapter(domain.TypeIAMAccessKey))
		r := NewResolver(registry, &fakeChecker{}, testLogger())

		user := mkRes("arn:aws:iam::1:user/alice", domain.TypeIAMUser)
		resolution, err := r.Resolve(context.Background(), []domain.Resource{user})
		require.NoError(t, err)

		require.Len(t, resolution.Candidates, 2)
		synth := resolution.Candidates[1]
		assert.True(t, synth.Synthetic)
		assert.Equal(t, key.ARN, synth.Resource.ARN)
		assert.Equal(t, resolution.Candidates[0].Tier, synth.Tier)
		assert.Contains(t, resolution.Edges, domain.DependencyEdge{From: synth.ID, To: resolution.Candidates[0].ID})
	})

	t.Run("dependent already in plan only gains an edge", func(t *testing.T) {
		registry := newTestRegistry(t, newFakeAdapter(domain.TypeIAMUser), newFakeAdapter(domain.TypeIAMAccessKey))
		registryAdapter, err := registry.Get(domain.TypeIAMUser)
		require.NoError(t, err)
		registryAdapter.(*fakeAdapter).implicitFn = userAdapter.implicitFn

		r := NewResolver(registry, &fakeChecker{}, testLogger())
		user := mkRes("arn:aws:iam::1:user/alice", domain.TypeIAMUser)

		resolution, err := r.Resolve(context.Background(), []domain.Resource{user, key})
		require.NoError(t, err)

		assert.Len(t, resolution.Candidates, 2)
		for _, c := range resolution.Candidates {
			assert.False(t, c.Synthetic)
		}
		assert.Len(t, resolution.Edges, 1)
	})

	t.Run("protected dependent blocks the owner", func(t *testing.T) {
		registry := newTestRegistry(t, userAdapter, newFakeAdapter(domain.TypeIAMAccessKey))
		checker := &fakeChecker{checkFn: func(res domain.Resource) domain.ProtectionState {
			if res.ARN == key.ARN {
				return domain.ProtectionState{Blocked: true, Reason: "manually protected"}
			}
			return domain.ProtectionState{}
		}}
		r := NewResolver(registry, checker, testLogger())

		user := mkRes("arn:aws:iam::1:user/alice", domain.TypeIAMUser)
		resolution, err := r.Resolve(context.Background(), []domain.Resource{user})
		require.NoError(t, err)

		require.Len(t, resolution.Candidates, 1)
		assert.Equal(t, []string{key.ARN}, resolution.Candidates[0].BlockedPrereqs)
		require.Len(t, resolution.Blocked, 1)
		assert.Equal(t, "manually protected", resolution.Blocked[0].Reason)
	})
}

func TestResolverCycleDetection(t *testing.T) {
	registry := newTestRegistry(t, newFakeAdapter(domain.TypeEC2SecurityGroup))
	r := NewResolver(registry, &fakeChecker{}, testLogger())

	// Mutually referencing security groups.
	a := mkRes("arn:aws:ec2:us-east-1:1:security-group/sg-a", domain.TypeEC2SecurityGroup)
	b := mkRes("arn:aws:ec2:us-east-1:1:security-group/sg-b", domain.TypeEC2SecurityGroup)
	a.References = []string{b.ARN}
	b.References = []string{a.ARN}

	_, err := r.Resolve(context.Background(), []domain.Resource{a, b})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeTopologyError))
	assert.Contains(t, err.Error(), "sg-a")
	assert.Contains(t, err.Error(), "sg-b")
}

func TestSynthesizeBlocker(t *testing.T) {
	registry := newTestRegistry(t, newFakeAdapter(domain.TypeEC2SecurityGroup), newFakeAdapter(domain.TypeEC2NetworkInterface))
	r := NewResolver(registry, &fakeChecker{}, testLogger())

	sg := mkRes("arn:aws:ec2:us-east-1:1:security-group/sg-1", domain.TypeEC2SecurityGroup)
	owner, err := r.newCandidate(sg, false)
	require.NoError(t, err)

	eni := mkRes("arn:aws:ec2:us-east-1:1:network-interface/eni-1", domain.TypeEC2NetworkInterface)
	synth, err := r.SynthesizeBlocker(context.Background(), eni, owner)
	require.NoError(t, err)
	assert.True(t, synth.Synthetic)
	assert.Equal(t, owner.Tier, synth.Tier)

	t.Run("protected blocker refuses synthesis", func(t *testing.T) {
		blocked := NewResolver(registry, &fakeChecker{checkFn: func(domain.Resource) domain.ProtectionState {
			return domain.ProtectionState{Blocked: true, Reason: "protected"}
		}}, testLogger())

		_, err := blocked.SynthesizeBlocker(context.Background(), eni, owner)
		require.Error(t, err)
	})
}
