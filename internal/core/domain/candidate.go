package domain

import "fmt"

type CandidateID string

// CandidateState is the orchestrator's per-candidate state machine position.
type CandidateState string

const (
	StatePending            CandidateState = "Pending"
	StatePreparing          CandidateState = "Preparing"
	StateDeleting           CandidateState = "Deleting"
	StateAwaitingCompletion CandidateState = "AwaitingCompletion"
	StateSucceeded          CandidateState = "Succeeded"
	StateSkipped            CandidateState = "Skipped"
	StateFailed             CandidateState = "Failed"
)

// Terminal reports whether the state machine can no longer move.
func (s CandidateState) Terminal() bool {
	switch s {
	case StateSucceeded, StateSkipped, StateFailed:
		return true
	}
	return false
}

// TerminalSuccess reports whether the state satisfies a dependency edge.
func (s CandidateState) TerminalSuccess() bool {
	return s == StateSucceeded || s == StateSkipped
}

// Stage names the adapter call an attempt was executing.
type Stage string

const (
	StagePrepare Stage = "prepare"
	StageDelete  Stage = "delete"
	StageAwait   Stage = "await"
)

// ErrorClass is the shared taxonomy every adapter classifies provider errors into.
// Adapters only classify; the orchestrator alone decides retries.
type ErrorClass string

const (
	ErrClassNone       ErrorClass = ""
	ErrClassNotFound   ErrorClass = "NotFound"
	ErrClassDependency ErrorClass = "Dependency"
	ErrClassPermission ErrorClass = "Permission"
	ErrClassState      ErrorClass = "State"
	ErrClassThrottle   ErrorClass = "Throttle"
	ErrClassUnknown    ErrorClass = "Unknown"
)

// ProtectionState records a protection filter verdict.
type ProtectionState struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}

// DeletionCandidate is a resource selected for possible deletion in one plan.
type DeletionCandidate struct {
	ID         CandidateID     `json:"id"`
	Resource   Resource        `json:"resource"`
	Tier       Tier            `json:"tier"`
	Protection ProtectionState `json:"protection"`

	// Synthetic candidates are prerequisites discovered at plan time (or during
	// dependency repair) that were not part of the snapshot diff. They are
	// audited but never surfaced as independent plan items.
	Synthetic bool `json:"synthetic,omitempty"`

	// BlockedPrereqs lists ARNs of prerequisite resources the protection
	// filter denied. The orchestrator fails such candidates with a
	// Dependency classification instead of overriding the protection.
	BlockedPrereqs []string `json:"blocked_prereqs,omitempty"`
}

// DependencyEdge states that From must reach a terminal state before To may
// enter Deleting. Immutable once the DAG is finalized.
type DependencyEdge struct {
	From CandidateID `json:"from"`
	To   CandidateID `json:"to"`
}

// DependencyBlockedError is returned by adapter Delete calls when the provider
// names the resource blocking deletion, so the resolver can synthesize it as a
// prerequisite during dependency repair.
type DependencyBlockedError struct {
	Blocker *Resource
	Err     error
}

func (e *DependencyBlockedError) Error() string {
	if e.Blocker != nil {
		return fmt.Sprintf("deletion blocked by %s (%s): %v", e.Blocker.ARN, e.Blocker.Type, e.Err)
	}
	return fmt.Sprintf("deletion blocked by dependent resource: %v", e.Err)
}

func (e *DependencyBlockedError) Unwrap() error {
	return e.Err
}
