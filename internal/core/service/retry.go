package service

import (
	"time"

	"github.com/tayodev/snapback/internal/core/domain"
)

// Action is what the orchestrator does with a classified failure.
type Action int

const (
	ActionSkip   Action = iota // resource already absent, idempotent success
	ActionRetry                // retry the same stage after Delay
	ActionRepair               // synthesize the blocker, requeue the candidate
	ActionFail                 // terminal failure
)

type Decision struct {
	Action Action
	Delay  time.Duration
	Reason string
}

// RetryPolicy is the single shared decision table. Adapters classify errors;
// this table alone turns classes into retry or terminal outcomes, so ~70
// provider error vocabularies reduce to one uniform behavior.
type RetryPolicy struct {
	StateDelay       time.Duration
	StateMaxAttempts int

	ThrottleBase        time.Duration
	ThrottleCap         time.Duration
	ThrottleMaxAttempts int

	RepairMax int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		StateDelay:          10 * time.Second,
		StateMaxAttempts:    3,
		ThrottleBase:        time.Second,
		ThrottleCap:         16 * time.Second,
		ThrottleMaxAttempts: 5,
		RepairMax:           3,
	}
}

// Counters tracks per-candidate retry consumption. State and throttle counts
// reset when the candidate moves to a new stage; repairs never reset.
type Counters struct {
	StateAttempts    int
	ThrottleAttempts int
	Repairs          int
}

// Decide maps a classified failure at a stage to an action. Counters reflect
// failures already consumed, including the one being decided.
func (p RetryPolicy) Decide(class domain.ErrorClass, stage domain.Stage, c Counters) Decision {
	if class == domain.ErrClassNotFound {
		return Decision{Action: ActionSkip, Reason: "resource already absent"}
	}

	// A failed prepare is terminal regardless of class: delete is never
	// attempted for a candidate whose pre-deletion step did not complete.
	if stage == domain.StagePrepare {
		return Decision{Action: ActionFail, Reason: "prepare step failed"}
	}

	switch class {
	case domain.ErrClassPermission:
		return Decision{Action: ActionFail, Reason: "caller lacks permission"}

	case domain.ErrClassState:
		if c.StateAttempts >= p.StateMaxAttempts {
			return Decision{Action: ActionFail, Reason: "state retries exhausted"}
		}
		return Decision{Action: ActionRetry, Delay: p.StateDelay, Reason: "transient resource state"}

	case domain.ErrClassThrottle:
		if c.ThrottleAttempts >= p.ThrottleMaxAttempts {
			return Decision{Action: ActionFail, Reason: "throttle retries exhausted"}
		}
		delay := p.ThrottleBase << (c.ThrottleAttempts - 1)
		if delay > p.ThrottleCap {
			delay = p.ThrottleCap
		}
		return Decision{Action: ActionRetry, Delay: delay, Reason: "rate limited"}

	case domain.ErrClassDependency:
		if stage == domain.StageDelete && c.Repairs <= p.RepairMax {
			return Decision{Action: ActionRepair, Reason: "blocking resource must be deleted first"}
		}
		if c.Repairs > p.RepairMax {
			return Decision{Action: ActionFail, Reason: "dependency-loop: repair bound exceeded"}
		}
		return Decision{Action: ActionFail, Reason: "dependency violation"}
	}

	return Decision{Action: ActionFail, Reason: "unclassified provider error"}
}
