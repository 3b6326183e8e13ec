package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

// Planner builds the restore plan: diff, protection partition, dependency
// resolution. It never issues a mutating call.
type Planner struct {
	snapshots ports.SnapshotProvider
	verifier  ports.AccountVerifier
	checker   ports.ProtectionChecker
	resolver  *Resolver
	logger    ports.Logger
}

func NewPlanner(
	snapshots ports.SnapshotProvider,
	verifier ports.AccountVerifier,
	checker ports.ProtectionChecker,
	resolver *Resolver,
	logger ports.Logger,
) (*Planner, error) {
	if snapshots == nil {
		return nil, errors.New(errors.CodeConfigValidation, "snapshot provider cannot be nil")
	}
	if checker == nil {
		return nil, errors.New(errors.CodeConfigValidation, "protection checker cannot be nil")
	}
	if resolver == nil {
		return nil, errors.New(errors.CodeConfigValidation, "resolver cannot be nil")
	}
	return &Planner{
		snapshots: snapshots,
		verifier:  verifier,
		checker:   checker,
		resolver:  resolver,
		logger:    logger,
	}, nil
}

// PlanRequest names the two snapshots and optional type/region filters.
type PlanRequest struct {
	Baseline string
	Current  string
	Types    []domain.ResourceType
	Regions  []string
}

// BuildPlan loads both snapshots, verifies the caller's account, computes the
// candidate set and resolves the DAG. The returned plan is serializable; a
// later execute must re-run this and re-validate, since provider state may
// have changed since preview.
func (p *Planner) BuildPlan(ctx context.Context, req PlanRequest) (*domain.RestorePlan, error) {
	var baseline, current *domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseline, err = p.loadSnapshot(gctx, req.Baseline)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = p.loadSnapshot(gctx, req.Current)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if baseline.AccountID != current.AccountID {
		return nil, errors.NewUserFacing(errors.CodeAccountMismatch,
			fmt.Sprintf("snapshots belong to different accounts: %s vs %s", baseline.AccountID, current.AccountID),
			"Compare snapshots captured from the same account.")
	}
	if p.verifier != nil {
		callerAccount, err := p.verifier.CallerAccountID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodePlatformAuthError, "failed to verify caller identity")
		}
		if callerAccount != baseline.AccountID {
			return nil, errors.NewUserFacing(errors.CodeAccountMismatch,
				fmt.Sprintf("snapshot belongs to account %s, credentials belong to %s", baseline.AccountID, callerAccount),
				"Switch to the AWS profile the snapshot was captured with.")
		}
	}

	added := SelectCandidates(current, baseline)
	p.logger.Infof(ctx, "Diff against baseline %q: %d resources created since", baseline.Name, len(added))

	filtered := FilterResources(added, req.Types, req.Regions)

	var allowed []domain.Resource
	var blocked []domain.BlockedResource
	for _, res := range filtered {
		verdict := p.checker.Check(res)
		if verdict.Blocked {
			blocked = append(blocked, domain.BlockedResource{Resource: res, Reason: verdict.Reason})
			continue
		}
		allowed = append(allowed, res)
	}
	p.logger.Infof(ctx, "Protection filter: %d allowed, %d blocked", len(allowed), len(blocked))

	resolution, err := p.resolver.Resolve(ctx, allowed)
	if err != nil {
		return nil, err
	}

	plan := &domain.RestorePlan{
		OperationID:      "op_" + uuid.NewString(),
		BaselineSnapshot: baseline.Name,
		CurrentSnapshot:  current.Name,
		AccountID:        baseline.AccountID,
		CreatedAt:        time.Now().UTC(),
		Candidates:       resolution.Candidates,
		Blocked:          append(blocked, resolution.Blocked...),
		Edges:            resolution.Edges,
	}

	sortPlan(plan)

	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTopologyError, "plan validation failed")
	}
	return plan, nil
}

// Revalidate compares a previously saved plan against a freshly built one and
// returns the ARNs the saved plan contains that are no longer candidates.
// Execution always acts on the fresh plan.
func Revalidate(saved, fresh *domain.RestorePlan) (dropped []string, err error) {
	if saved.BaselineSnapshot != fresh.BaselineSnapshot {
		return nil, errors.New(errors.CodePlanInvalid,
			fmt.Sprintf("saved plan targets baseline %q, current run targets %q", saved.BaselineSnapshot, fresh.BaselineSnapshot))
	}
	freshARNs := make(map[string]struct{}, len(fresh.Candidates))
	for _, c := range fresh.Candidates {
		freshARNs[c.Resource.ARN] = struct{}{}
	}
	for _, c := range saved.Candidates {
		if c.Synthetic {
			continue
		}
		if _, ok := freshARNs[c.Resource.ARN]; !ok {
			dropped = append(dropped, c.Resource.ARN)
		}
	}
	sort.Strings(dropped)
	return dropped, nil
}

func (p *Planner) loadSnapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	if name == "" {
		return nil, errors.NewUserFacing(errors.CodeSnapshotNotFound, "snapshot name is empty", "Pass --baseline and --current snapshot names.")
	}
	snap, err := p.snapshots.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotInvalid, "snapshot failed validation")
	}
	return snap, nil
}

// sortPlan orders candidates by tier, synthetics ahead of their owners within
// a tier, then by ARN for deterministic output.
func sortPlan(plan *domain.RestorePlan) {
	sort.SliceStable(plan.Candidates, func(i, j int) bool {
		a, b := plan.Candidates[i], plan.Candidates[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.Synthetic != b.Synthetic {
			return a.Synthetic
		}
		return a.Resource.ARN < b.Resource.ARN
	})
}
