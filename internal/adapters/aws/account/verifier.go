// Package account verifies caller identity before any destructive plan runs.
package account

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tayodev/snapback/internal/adapters/aws/shared"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

//go:generate mockery --name STSClientInterface --output ./mocks --outpkg mocks --case underscore

// STSClientInterface defines the method needed from the AWS SDK STS client.
type STSClientInterface interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Verifier resolves the account id behind the active credentials.
type Verifier struct {
	client  STSClientInterface
	limiter shared.RateLimiter
	logger  ports.Logger
}

func NewVerifier(client STSClientInterface, limiter shared.RateLimiter, logger ports.Logger) (*Verifier, error) {
	if client == nil {
		return nil, errors.New(errors.CodeConfigValidation, "STS client cannot be nil")
	}
	return &Verifier{client: client, limiter: limiter, logger: logger}, nil
}

func (v *Verifier) CallerAccountID(ctx context.Context) (string, error) {
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx, v.logger); err != nil {
			return "", errors.Wrap(err, errors.CodePlatformAPIError, "rate limiter wait failed before STS call")
		}
	}

	out, err := v.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			"failed to resolve caller identity",
			"Check that AWS credentials are configured and not expired.")
	}
	if out.Account == nil || *out.Account == "" {
		return "", errors.New(errors.CodePlatformAPIError, "STS returned an empty account id")
	}
	return *out.Account, nil
}
