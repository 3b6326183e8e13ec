package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

// AccessKeyAdapter deletes access keys surfaced as implicit dependents of a
// user. The owning user name travels in the resource metadata.
type AccessKeyAdapter struct {
	shared.Base
	client IAMClientInterface
}

func NewAccessKeyAdapter(client IAMClientInterface, limiter shared.RateLimiter, logger ports.Logger) *AccessKeyAdapter {
	return &AccessKeyAdapter{
		Base:   shared.NewBase(domain.TypeIAMAccessKey, limiter, logger),
		client: client,
	}
}

func (a *AccessKeyAdapter) Delete(ctx context.Context, res domain.Resource) error {
	userName, _ := res.Metadata["user_name"].(string)
	if userName == "" {
		return errors.Newf(errors.CodeDeletionFailed,
			"access key %s carries no owning user name", res.Name)
	}

	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.DeleteAccessKey(ctx, &awsiam.DeleteAccessKeyInput{
		UserName:    aws.String(userName),
		AccessKeyId: aws.String(res.Name),
	})
	return err
}
