package shared

import (
	"context"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
)

// Base carries the behavior most adapters share: synchronous deletion, no
// pre-deletion step, no implicit dependents, the common classifier. Adapters
// embed it and override only the stages their service needs.
type Base struct {
	ResourceType domain.ResourceType
	Limiter      RateLimiter
	Logger       ports.Logger
}

func NewBase(rt domain.ResourceType, limiter RateLimiter, logger ports.Logger) Base {
	return Base{ResourceType: rt, Limiter: limiter, Logger: logger}
}

func (b Base) Type() domain.ResourceType { return b.ResourceType }

func (b Base) Prepare(_ context.Context, _ domain.Resource) error { return nil }

// AwaitCompletion is a no-op for services whose delete call returns only once
// the resource is gone.
func (b Base) AwaitCompletion(_ context.Context, _ domain.Resource) error { return nil }

func (b Base) ClassifyError(err error) domain.ErrorClass { return Classify(err) }

func (b Base) CompletesOnAcceptance() bool { return false }

func (b Base) ListImplicitDependents(_ context.Context, _ domain.Resource) ([]domain.Resource, error) {
	return nil, nil
}

// Throttle waits on the shared account-level rate limit before an API call.
func (b Base) Throttle(ctx context.Context) error {
	if b.Limiter == nil {
		return nil
	}
	return b.Limiter.Wait(ctx, b.Logger)
}
