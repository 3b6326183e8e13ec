// Package rds holds deletion adapters for RDS instances and clusters.
// Database deletion is slow and asynchronous; both adapters poll in the
// await stage until the engine reports the resource gone.
package rds

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

const pollInterval = 15 * time.Second

//go:generate mockery --name RDSClientInterface --output ./mocks --outpkg mocks --case underscore

// RDSClientInterface defines the SDK methods the RDS adapters call.
type RDSClientInterface interface {
	ModifyDBInstance(ctx context.Context, params *awsrds.ModifyDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.ModifyDBInstanceOutput, error)
	DeleteDBInstance(ctx context.Context, params *awsrds.DeleteDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.DeleteDBInstanceOutput, error)
	DescribeDBInstances(ctx context.Context, params *awsrds.DescribeDBInstancesInput, optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBInstancesOutput, error)

	ModifyDBCluster(ctx context.Context, params *awsrds.ModifyDBClusterInput, optFns ...func(*awsrds.Options)) (*awsrds.ModifyDBClusterOutput, error)
	DeleteDBCluster(ctx context.Context, params *awsrds.DeleteDBClusterInput, optFns ...func(*awsrds.Options)) (*awsrds.DeleteDBClusterOutput, error)
	DescribeDBClusters(ctx context.Context, params *awsrds.DescribeDBClustersInput, optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClustersOutput, error)
}

// InstanceAdapter deletes DB instances. Deletion protection is cleared in
// prepare; the delete skips the final snapshot and drops automated backups,
// matching the restore-to-baseline intent where the instance should not have
// existed at all.
type InstanceAdapter struct {
	shared.Base
	client RDSClientInterface
}

func NewInstanceAdapter(client RDSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *InstanceAdapter {
	return &InstanceAdapter{
		Base:   shared.NewBase(domain.TypeRDSDBInstance, limiter, logger),
		client: client,
	}
}

func (a *InstanceAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.ModifyDBInstance(ctx, &awsrds.ModifyDBInstanceInput{
		DBInstanceIdentifier: aws.String(res.Name),
		DeletionProtection:   aws.Bool(false),
		ApplyImmediately:     aws.Bool(true),
	})
	return err
}

func (a *InstanceAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteDBInstance(ctx, &awsrds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   aws.String(res.Name),
		SkipFinalSnapshot:      aws.Bool(true),
		DeleteAutomatedBackups: aws.Bool(true),
	})
	return err
}

func (a *InstanceAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DescribeDBInstances(ctx, &awsrds.DescribeDBInstancesInput{
			DBInstanceIdentifier: aws.String(res.Name),
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

// ClusterAdapter deletes Aurora clusters the same way: clear protection,
// skip the final snapshot, poll until gone. Member instances sit in the data
// tier alongside the cluster and are ordered ahead of it by snapshot
// references.
type ClusterAdapter struct {
	shared.Base
	client RDSClientInterface
}

func NewClusterAdapter(client RDSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *ClusterAdapter {
	return &ClusterAdapter{
		Base:   shared.NewBase(domain.TypeRDSDBCluster, limiter, logger),
		client: client,
	}
}

func (a *ClusterAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.ModifyDBCluster(ctx, &awsrds.ModifyDBClusterInput{
		DBClusterIdentifier: aws.String(res.Name),
		DeletionProtection:  aws.Bool(false),
		ApplyImmediately:    aws.Bool(true),
	})
	return err
}

func (a *ClusterAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteDBCluster(ctx, &awsrds.DeleteDBClusterInput{
		DBClusterIdentifier: aws.String(res.Name),
		SkipFinalSnapshot:   aws.Bool(true),
	})
	return err
}

func (a *ClusterAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DescribeDBClusters(ctx, &awsrds.DescribeDBClustersInput{
			DBClusterIdentifier: aws.String(res.Name),
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
