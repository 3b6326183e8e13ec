// Package kms holds the KMS key deletion adapter.
package kms

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name KMSClientInterface --output ./mocks --outpkg mocks --case underscore

// KMSClientInterface defines the SDK methods the key adapter calls.
type KMSClientInterface interface {
	ScheduleKeyDeletion(ctx context.Context, params *awskms.ScheduleKeyDeletionInput, optFns ...func(*awskms.Options)) (*awskms.ScheduleKeyDeletionOutput, error)
	DeleteAlias(ctx context.Context, params *awskms.DeleteAliasInput, optFns ...func(*awskms.Options)) (*awskms.DeleteAliasOutput, error)
}

// KeyAdapter schedules key deletion with the minimum pending window. KMS
// never deletes keys immediately; accepted scheduling is terminal success
// and the pending window is not waited out.
type KeyAdapter struct {
	shared.Base
	client KMSClientInterface
}

func NewKeyAdapter(client KMSClientInterface, limiter shared.RateLimiter, logger ports.Logger) *KeyAdapter {
	return &KeyAdapter{
		Base:   shared.NewBase(domain.TypeKMSKey, limiter, logger),
		client: client,
	}
}

func (a *KeyAdapter) Delete(ctx context.Context, res domain.Resource) error {
	if err := a.Throttle(ctx); err != nil {
		return err
	}
	_, err := a.client.ScheduleKeyDeletion(ctx, &awskms.ScheduleKeyDeletionInput{
		KeyId:               aws.String(res.Name),
		PendingWindowInDays: aws.Int32(7),
	})
	return err
}

func (a *KeyAdapter) CompletesOnAcceptance() bool { return true }

func (a *KeyAdapter) ClassifyError(err error) domain.ErrorClass {
	class := shared.Classify(err)
	if class == domain.ErrClassState {
		// A key already pending deletion reports KMSInvalidStateException;
		// for this adapter that means the work is already done.
		return domain.ErrClassNotFound
	}
	return class
}
