package ports

import (
	"context"

	"github.com/tayodev/snapback/internal/core/domain"
)

// ServiceAdapter is the per-resource-type deletion strategy. One adapter per
// type, selected purely by type. Adapters classify provider errors but never
// decide retry policy; that is the orchestrator's job alone.
//
//go:generate mockery --name=ServiceAdapter --output=./mocks --outpkg=mocks --case underscore
type ServiceAdapter interface {
	Type() domain.ResourceType

	// Prepare runs the idempotent pre-deletion step: disable deletion
	// protection, empty a bucket, detach policies. May poll until ready,
	// bounded by the orchestrator's prepare timeout on ctx.
	Prepare(ctx context.Context, res domain.Resource) error

	// Delete issues the deletion call. "Already absent" responses must come
	// back as errors that classify to NotFound so the orchestrator can record
	// an idempotent success.
	Delete(ctx context.Context, res domain.Resource) error

	// AwaitCompletion polls until the provider reports a terminal state, for
	// resources whose removal is asynchronous. Not called when
	// CompletesOnAcceptance is true.
	AwaitCompletion(ctx context.Context, res domain.Resource) error

	// ClassifyError maps a raw provider error into the shared taxonomy.
	ClassifyError(err error) domain.ErrorClass

	// CompletesOnAcceptance is true for provider-scheduled deletions
	// (recovery-windowed or delayed): successful scheduling is terminal
	// success, the window is never waited out.
	CompletesOnAcceptance() bool

	// ListImplicitDependents returns prerequisite resources not present in the
	// snapshot that must be deleted first (access keys, event source mappings,
	// mount targets). Called exactly once per candidate at plan time.
	ListImplicitDependents(ctx context.Context, res domain.Resource) ([]domain.Resource, error)
}
