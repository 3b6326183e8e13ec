package limiter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tayodev/snapback/internal/core/ports"
)

const (
	defaultRateLimitRPS = 10
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 100
)

var (
	apiLimiter  *rate.Limiter
	limiterOnce sync.Once
)

// Initialize sets up the global AWS API rate limiter shared by every adapter.
// Deletion calls across all services count against one account-level limit.
func Initialize(rps int, logger ports.Logger) {
	limiterOnce.Do(func() {
		limitValue := defaultRateLimitRPS
		logMsg := "Initializing global AWS API rate limiter"
		if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
			limitValue = rps
			logMsg = fmt.Sprintf("%s with configured rate", logMsg)
		} else if rps != 0 {
			logger.Warnf(nil, "Invalid AWS API RPS configured (%d), using default %d RPS. Valid range: %d-%d.", rps, defaultRateLimitRPS, minRateLimitRPS, maxRateLimitRPS)
			logMsg = fmt.Sprintf("%s with default rate (invalid config)", logMsg)
		} else {
			logMsg = fmt.Sprintf("%s with default rate", logMsg)
		}

		apiLimiter = rate.NewLimiter(rate.Limit(limitValue), limitValue)
		logger.Infof(nil, "%s: %d RPS", logMsg, limitValue)
	})
}

// Wait blocks until the limiter admits one call.
func Wait(ctx context.Context, logger ports.Logger) error {
	if apiLimiter == nil {
		logger.Errorf(ctx, nil, "FATAL: AWS API rate limiter accessed before initialization.")
		Initialize(defaultRateLimitRPS, logger)
	}
	err := apiLimiter.Wait(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warnf(ctx, "Error waiting for AWS API rate limiter: %v", err)
		}
		return err
	}
	return nil
}

// Global adapts the package-level limiter to the shared.RateLimiter interface.
type Global struct{}

func (Global) Wait(ctx context.Context, logger ports.Logger) error {
	return Wait(ctx, logger)
}
