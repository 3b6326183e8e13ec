package shared

import (
	"context"

	"github.com/tayodev/snapback/internal/core/ports"
)

//go:generate mockery --name RateLimiter --output ./mocks --outpkg mocks --case underscore

// RateLimiter gates AWS API calls behind the shared account-level limit.
type RateLimiter interface {
	// Wait blocks until the rate limit allows proceeding, or returns an error.
	Wait(ctx context.Context, logger ports.Logger) error
}
