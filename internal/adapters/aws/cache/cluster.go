// Package cache holds the ElastiCache cluster deletion adapter.
package cache

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscache "github.com/aws/aws-sdk-go-v2/service/elasticache"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

const pollInterval = 15 * time.Second

//go:generate mockery --name ElastiCacheClientInterface --output ./mocks --outpkg mocks --case underscore

// ElastiCacheClientInterface defines the SDK methods the cluster adapter calls.
type ElastiCacheClientInterface interface {
	DeleteCacheCluster(ctx context.Context, params *awscache.DeleteCacheClusterInput, optFns ...func(*awscache.Options)) (*awscache.DeleteCacheClusterOutput, error)
	DescribeCacheClusters(ctx context.Context, params *awscache.DescribeCacheClustersInput, optFns ...func(*awscache.Options)) (*awscache.DescribeCacheClustersOutput, error)
}

// ClusterAdapter deletes standalone cache clusters and polls until the
// engine reports them gone. Clusters inside a replication group refuse
// direct deletion and fail as dependencies.
type ClusterAdapter struct {
	shared.Base
	client ElastiCacheClientInterface
}

func NewClusterAdapter(client ElastiCacheClientInterface, limiter shared.RateLimiter, logger ports.Logger) *ClusterAdapter {
	return &ClusterAdapter{
		Base:   shared.NewBase(domain.TypeElastiCacheCluster, limiter, logger),
		client: client,
	}
}

func (a *ClusterAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteCacheCluster(ctx, &awscache.DeleteCacheClusterInput{
		CacheClusterId: aws.String(res.Name),
	})
	return err
}

func (a *ClusterAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DescribeCacheClusters(ctx, &awscache.DescribeCacheClustersInput{
			CacheClusterId: aws.String(res.Name),
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
