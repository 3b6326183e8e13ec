// Package s3 holds the bucket deletion adapter.
package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name S3ClientInterface --output ./mocks --outpkg mocks --case underscore

// S3ClientInterface defines the SDK methods the bucket adapter calls.
type S3ClientInterface interface {
	ListObjectVersions(ctx context.Context, params *awss3.ListObjectVersionsInput, optFns ...func(*awss3.Options)) (*awss3.ListObjectVersionsOutput, error)
	DeleteObjects(ctx context.Context, params *awss3.DeleteObjectsInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *awss3.DeleteBucketInput, optFns ...func(*awss3.Options)) (*awss3.DeleteBucketOutput, error)
}

// BucketAdapter empties a bucket in prepare, every version and delete marker
// included, then deletes it. An object written between the two stages makes
// the delete fail with BucketNotEmpty; the retry table routes that through a
// repair cycle which re-runs prepare on the next attempt.
type BucketAdapter struct {
	shared.Base
	client S3ClientInterface
}

func NewBucketAdapter(client S3ClientInterface, limiter shared.RateLimiter, logger ports.Logger) *BucketAdapter {
	return &BucketAdapter{
		Base:   shared.NewBase(domain.TypeS3Bucket, limiter, logger),
		client: client,
	}
}

func (a *BucketAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	bucket := aws.String(res.Name)

	var keyMarker, versionMarker *string
	for {
		if err := a.Throttle(ctx); err != nil {
			return err
		}
		page, err := a.client.ListObjectVersions(ctx, &awss3.ListObjectVersionsInput{
			Bucket:          bucket,
			KeyMarker:       keyMarker,
			VersionIdMarker: versionMarker,
		})
		if err != nil {
			if shared.Classify(err) == domain.ErrClassNotFound {
				return nil
			}
			return err
		}

		var objects []s3types.ObjectIdentifier
		for _, v := range page.Versions {
			objects = append(objects, s3types.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
		}
		for _, m := range page.DeleteMarkers {
			objects = append(objects, s3types.ObjectIdentifier{Key: m.Key, VersionId: m.VersionId})
		}

		if len(objects) > 0 {
			if err := a.Throttle(ctx); err != nil {
				return err
			}
			if _, err := a.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
				Bucket: bucket,
				Delete: &s3types.Delete{Objects: objects, Quiet: aws.Bool(true)},
			}); err != nil {
				return err
			}
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			return nil
		}
		keyMarker = page.NextKeyMarker
		versionMarker = page.NextVersionIdMarker
	}
}

func (a *BucketAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteBucket(ctx, &awss3.DeleteBucketInput{
		Bucket: aws.String(res.Name),
	})
	return err
}
