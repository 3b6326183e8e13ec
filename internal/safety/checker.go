package safety

import (
	"time"

	"github.com/tayodev/snapback/internal/core/domain"
)

// Checker evaluates resources against the ordered protection rules.
// The first matching rule decides; its reason is carried on the denial.
type Checker struct {
	rules []Rule
	now   func() time.Time
}

type Option func(*Checker)

// WithClock overrides the time source, for age-rule tests.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

func NewChecker(rules []Rule, opts ...Option) *Checker {
	c := &Checker{rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the protection verdict for one resource.
func (c *Checker) Check(res domain.Resource) domain.ProtectionState {
	now := c.now()
	for _, rule := range c.rules {
		if matched, reason := rule.Evaluate(res, now); matched {
			return domain.ProtectionState{Blocked: true, Reason: reason + " (rule: " + rule.ID() + ")"}
		}
	}
	return domain.ProtectionState{}
}

// Partition splits resources into allowed and blocked sets. Blocked resources
// are reported but never reach the orchestrator.
func (c *Checker) Partition(resources []domain.Resource) (allowed []domain.Resource, blocked []domain.BlockedResource) {
	for _, res := range resources {
		verdict := c.Check(res)
		if verdict.Blocked {
			blocked = append(blocked, domain.BlockedResource{Resource: res, Reason: verdict.Reason})
			continue
		}
		allowed = append(allowed, res)
	}
	return allowed, blocked
}
