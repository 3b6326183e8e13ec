package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

// Resolver assigns tiers, materializes implicit prerequisites as synthetic
// candidates and builds the dependency DAG. A cycle or an unknown resource
// type aborts the entire plan before any mutating call.
type Resolver struct {
	registry *AdapterRegistry
	checker  ports.ProtectionChecker
	logger   ports.Logger

	mu  sync.Mutex
	seq int
}

func NewResolver(registry *AdapterRegistry, checker ports.ProtectionChecker, logger ports.Logger) *Resolver {
	return &Resolver{registry: registry, checker: checker, logger: logger}
}

func (r *Resolver) nextID() domain.CandidateID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return domain.CandidateID(fmt.Sprintf("cand-%04d", r.seq))
}

// Resolution is the resolver's output: the candidate set (including synthetic
// prerequisites), the finalized edge list and any blocked prerequisites found
// while expanding implicit dependents.
type Resolution struct {
	Candidates []*domain.DeletionCandidate
	Edges      []domain.DependencyEdge
	Blocked    []domain.BlockedResource
}

// Resolve builds the DAG over the allowed candidate set. Each adapter's
// implicit-dependents capability is consulted exactly once per candidate;
// expansion is bounded and non-recursive to cap planning-time API cost.
func (r *Resolver) Resolve(ctx context.Context, allowed []domain.Resource) (*Resolution, error) {
	res := &Resolution{}
	byARN := make(map[string]*domain.DeletionCandidate, len(allowed))

	for _, resource := range allowed {
		cand, err := r.newCandidate(resource, false)
		if err != nil {
			return nil, err
		}
		res.Candidates = append(res.Candidates, cand)
		byARN[resource.ARN] = cand
	}

	// Explicit edges from metadata references: the referencing resource goes
	// before the resource it points at.
	for _, cand := range res.Candidates {
		for _, ref := range cand.Resource.References {
			target, ok := byARN[ref]
			if !ok || target == cand {
				continue
			}
			res.Edges = append(res.Edges, domain.DependencyEdge{From: cand.ID, To: target.ID})
		}
	}

	// Implicit prerequisites, one adapter call per candidate.
	for _, cand := range res.Candidates {
		if cand.Synthetic {
			continue
		}
		adapter, err := r.registry.Get(cand.Resource.Type)
		if err != nil {
			return nil, err
		}
		dependents, err := adapter.ListImplicitDependents(ctx, cand.Resource)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodePlatformAPIError,
				fmt.Sprintf("listing implicit dependents of %s", cand.Resource.ARN))
		}
		for _, dep := range dependents {
			if existing, ok := byARN[dep.ARN]; ok {
				res.Edges = append(res.Edges, domain.DependencyEdge{From: existing.ID, To: cand.ID})
				continue
			}
			verdict := r.checker.Check(dep)
			if verdict.Blocked {
				r.logger.Warnf(ctx, "Prerequisite %s of %s is protected: %s", dep.ARN, cand.Resource.ARN, verdict.Reason)
				res.Blocked = append(res.Blocked, domain.BlockedResource{Resource: dep, Reason: verdict.Reason})
				cand.BlockedPrereqs = append(cand.BlockedPrereqs, dep.ARN)
				continue
			}
			synth, err := r.newSynthetic(dep, cand.Tier)
			if err != nil {
				return nil, err
			}
			res.Candidates = append(res.Candidates, synth)
			byARN[dep.ARN] = synth
			res.Edges = append(res.Edges, domain.DependencyEdge{From: synth.ID, To: cand.ID})
			r.logger.Debugf(ctx, "Synthesized prerequisite %s (tier %d) ahead of %s", dep.ARN, synth.Tier, cand.Resource.ARN)
		}
	}

	if err := r.checkAcyclic(res.Candidates, res.Edges); err != nil {
		return nil, err
	}
	return res, nil
}

// SynthesizeBlocker materializes a blocking resource reported at execution
// time (dependency repair) as a new prerequisite candidate in the owner's tier.
func (r *Resolver) SynthesizeBlocker(ctx context.Context, blocker domain.Resource, owner *domain.DeletionCandidate) (*domain.DeletionCandidate, error) {
	verdict := r.checker.Check(blocker)
	if verdict.Blocked {
		return nil, errors.New(errors.CodeDeletionFailed,
			fmt.Sprintf("blocking resource %s is protected: %s", blocker.ARN, verdict.Reason))
	}
	if _, err := r.registry.Get(blocker.Type); err != nil {
		return nil, err
	}
	synth, err := r.newSynthetic(blocker, owner.Tier)
	if err != nil {
		return nil, err
	}
	r.logger.Infof(ctx, "Dependency repair: synthesized %s ahead of %s", blocker.ARN, owner.Resource.ARN)
	return synth, nil
}

func (r *Resolver) newCandidate(resource domain.Resource, synthetic bool) (*domain.DeletionCandidate, error) {
	tier, known := domain.TierFor(resource.Type)
	if !known {
		return nil, errors.NewUserFacing(errors.CodeUnknownResourceType,
			fmt.Sprintf("resource type '%s' (%s) is not in the tier table", resource.Type, resource.ARN),
			"Exclude the type with --types or extend the tier table.")
	}
	if _, err := r.registry.Get(resource.Type); err != nil {
		return nil, err
	}
	return &domain.DeletionCandidate{
		ID:        r.nextID(),
		Resource:  resource,
		Tier:      tier,
		Synthetic: synthetic,
	}, nil
}

func (r *Resolver) newSynthetic(resource domain.Resource, ownerTier domain.Tier) (*domain.DeletionCandidate, error) {
	cand, err := r.newCandidate(resource, true)
	if err != nil {
		return nil, err
	}
	// Synthetic prerequisites run in the owning resource's tier so they are
	// terminal before the owner becomes eligible.
	cand.Tier = ownerTier
	return cand, nil
}

// checkAcyclic runs Kahn's algorithm over the candidate DAG. A cycle is a
// configuration bug, not a runtime condition to route around: the plan aborts
// with a topology error naming the offending resources.
func (r *Resolver) checkAcyclic(candidates []*domain.DeletionCandidate, edges []domain.DependencyEdge) error {
	indegree := make(map[domain.CandidateID]int, len(candidates))
	out := make(map[domain.CandidateID][]domain.CandidateID, len(candidates))
	byID := make(map[domain.CandidateID]*domain.DeletionCandidate, len(candidates))

	for _, c := range candidates {
		indegree[c.ID] = 0
		byID[c.ID] = c
	}
	for _, e := range edges {
		if _, ok := byID[e.From]; !ok {
			continue
		}
		if _, ok := byID[e.To]; !ok {
			continue
		}
		out[e.From] = append(out[e.From], e.To)
		indegree[e.To]++
	}

	queue := make([]domain.CandidateID, 0, len(candidates))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range out[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited == len(candidates) {
		return nil
	}

	var offending []string
	for id, deg := range indegree {
		if deg > 0 {
			offending = append(offending, byID[id].Resource.ARN)
		}
	}
	sort.Strings(offending)
	return errors.New(errors.CodeTopologyError,
		fmt.Sprintf("dependency cycle involving: %s", strings.Join(offending, ", ")))
}
