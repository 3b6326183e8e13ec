// Package efs holds deletion adapters for EFS file systems and mount
// targets.
package efs

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsefs "github.com/aws/aws-sdk-go-v2/service/efs"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

const pollInterval = 5 * time.Second

//go:generate mockery --name EFSClientInterface --output ./mocks --outpkg mocks --case underscore

// EFSClientInterface defines the SDK methods the EFS adapters call.
type EFSClientInterface interface {
	DescribeMountTargets(ctx context.Context, params *awsefs.DescribeMountTargetsInput, optFns ...func(*awsefs.Options)) (*awsefs.DescribeMountTargetsOutput, error)
	DeleteMountTarget(ctx context.Context, params *awsefs.DeleteMountTargetInput, optFns ...func(*awsefs.Options)) (*awsefs.DeleteMountTargetOutput, error)
	DeleteFileSystem(ctx context.Context, params *awsefs.DeleteFileSystemInput, optFns ...func(*awsefs.Options)) (*awsefs.DeleteFileSystemOutput, error)
	DescribeFileSystems(ctx context.Context, params *awsefs.DescribeFileSystemsInput, optFns ...func(*awsefs.Options)) (*awsefs.DescribeFileSystemsOutput, error)
}

// FileSystemAdapter deletes EFS file systems. A file system cannot be
// deleted while mount targets exist, so they surface as implicit dependents
// at plan time.
type FileSystemAdapter struct {
	shared.Base
	client EFSClientInterface
}

func NewFileSystemAdapter(client EFSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *FileSystemAdapter {
	return &FileSystemAdapter{
		Base:   shared.NewBase(domain.TypeEFSFileSystem, limiter, logger),
		client: client,
	}
}

func (a *FileSystemAdapter) ListImplicitDependents(ctx context.Context, res domain.Resource) ([]domain.Resource, error) {
	if err := a.Throttle(ctx); err != nil {
		return nil, err
	}
	out, err := a.client.DescribeMountTargets(ctx, &awsefs.DescribeMountTargetsInput{
		FileSystemId: aws.String(res.Name),
	})
	if err != nil {
		if shared.Classify(err) == domain.ErrClassNotFound {
			return nil, nil
		}
		return nil, err
	}

	var deps []domain.Resource
	for _, mt := range out.MountTargets {
		if mt.MountTargetId == nil {
			continue
		}
		deps = append(deps, domain.Resource{
			ARN:    fmt.Sprintf("%s/mount-target/%s", res.ARN, *mt.MountTargetId),
			Type:   domain.TypeEFSMountTarget,
			Name:   *mt.MountTargetId,
			Region: res.Region,
		})
	}
	return deps, nil
}

func (a *FileSystemAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteFileSystem(ctx, &awsefs.DeleteFileSystemInput{
		FileSystemId: aws.String(res.Name),
	})
	return err
}

func (a *FileSystemAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		_, err := a.client.DescribeFileSystems(ctx, &awsefs.DescribeFileSystemsInput{
			FileSystemId: aws.String(res.Name),
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

// MountTargetAdapter deletes the mount targets the file system adapter
// synthesizes. Removal is asynchronous; the file system delete retries as a
// state error until the last target is gone.
type MountTargetAdapter struct {
	shared.Base
	client EFSClientInterface
}

func NewMountTargetAdapter(client EFSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *MountTargetAdapter {
	return &MountTargetAdapter{
		Base:   shared.NewBase(domain.TypeEFSMountTarget, limiter, logger),
		client: client,
	}
}

func (a *MountTargetAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteMountTarget(ctx, &awsefs.DeleteMountTargetInput{
		MountTargetId: aws.String(res.Name),
	})
	return err
}
