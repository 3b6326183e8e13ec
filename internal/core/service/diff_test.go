package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tayodev/snapback/internal/core/domain"
)

func snap(name string, resources ...domain.Resource) *domain.Snapshot {
	return &domain.Snapshot{
		Name:      name,
		AccountID: "111111111111",
		Resources: resources,
	}
}

func TestSelectCandidates(t *testing.T) {
	vpc := mkRes("arn:aws:ec2:us-east-1:111111111111:vpc/vpc-1", domain.TypeEC2VPC)
	inst := mkRes("arn:aws:ec2:us-east-1:111111111111:instance/i-new", domain.TypeEC2Instance)
	bucket := mkRes("arn:aws:s3:::new-bucket", domain.TypeS3Bucket)

	t.Run("resources added since baseline are candidates", func(t *testing.T) {
		baseline := snap("base", vpc)
		current := snap("now", vpc, inst, bucket)

		got := SelectCandidates(current, baseline)

		assert.Len(t, got, 2)
		arns := []string{got[0].ARN, got[1].ARN}
		assert.Contains(t, arns, inst.ARN)
		assert.Contains(t, arns, bucket.ARN)
	})

	t.Run("modified resources are not candidates", func(t *testing.T) {
		unchanged := vpc
		changed := vpc
		changed.ConfigHash = "different"

		got := SelectCandidates(snap("now", changed), snap("base", unchanged))

		assert.Empty(t, got)
	})

	t.Run("resources deleted since baseline are ignored", func(t *testing.T) {
		got := SelectCandidates(snap("now"), snap("base", vpc, inst))

		assert.Empty(t, got)
	})

	t.Run("identical snapshots produce an empty set", func(t *testing.T) {
		got := SelectCandidates(snap("now", vpc, inst), snap("base", vpc, inst))

		assert.Empty(t, got)
	})
}

func TestFilterResources(t *testing.T) {
	east := mkRes("arn:aws:ec2:us-east-1:111111111111:instance/i-1", domain.TypeEC2Instance)
	west := mkRes("arn:aws:ec2:us-west-2:111111111111:instance/i-2", domain.TypeEC2Instance)
	west.Region = "us-west-2"
	bucket := mkRes("arn:aws:s3:::b-1", domain.TypeS3Bucket)

	all := []domain.Resource{east, west, bucket}

	t.Run("no filters passes everything", func(t *testing.T) {
		assert.Equal(t, all, FilterResources(all, nil, nil))
	})

	t.Run("type filter", func(t *testing.T) {
		got := FilterResources(all, []domain.ResourceType{domain.TypeS3Bucket}, nil)
		assert.Equal(t, []domain.Resource{bucket}, got)
	})

	t.Run("region filter", func(t *testing.T) {
		got := FilterResources(all, nil, []string{"us-west-2"})
		assert.Equal(t, []domain.Resource{west}, got)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		got := FilterResources(all, []domain.ResourceType{domain.TypeEC2Instance}, []string{"us-east-1"})
		assert.Equal(t, []domain.Resource{east}, got)
	})
}
