package domain

import (
	"fmt"
	"time"
)

// BlockedResource is a diff candidate the protection filter denied. Reported,
// never passed to the orchestrator.
type BlockedResource struct {
	Resource Resource `json:"resource"`
	Reason   string   `json:"reason"`
}

// RestorePlan is the serializable plan artifact: the ordered candidate list
// with tier, dependency and protection annotations. A preview can persist it
// and a later execute re-validates it against a fresh diff before acting.
type RestorePlan struct {
	OperationID      string               `json:"operation_id"`
	BaselineSnapshot string               `json:"baseline_snapshot"`
	CurrentSnapshot  string               `json:"current_snapshot"`
	AccountID        string               `json:"account_id"`
	CreatedAt        time.Time            `json:"created_at"`
	Candidates       []*DeletionCandidate `json:"candidates"`
	Blocked          []BlockedResource    `json:"blocked,omitempty"`
	Edges            []DependencyEdge     `json:"edges,omitempty"`
}

// CandidatesInTier returns allowed candidates assigned to the given tier, in
// plan order.
func (p *RestorePlan) CandidatesInTier(t Tier) []*DeletionCandidate {
	var out []*DeletionCandidate
	for _, c := range p.Candidates {
		if c.Tier == t {
			out = append(out, c)
		}
	}
	return out
}

// Candidate looks up a candidate by ID.
func (p *RestorePlan) Candidate(id CandidateID) (*DeletionCandidate, bool) {
	for _, c := range p.Candidates {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Validate checks plan-level invariants: no blocked candidate in the candidate
// list, every edge endpoint resolvable, and no edge pointing from a later tier
// to an earlier one (which could never become eligible under strict tier order).
func (p *RestorePlan) Validate() error {
	byID := make(map[CandidateID]*DeletionCandidate, len(p.Candidates))
	for _, c := range p.Candidates {
		if c.Protection.Blocked {
			return fmt.Errorf("blocked resource %s present in candidate list", c.Resource.ARN)
		}
		if _, dup := byID[c.ID]; dup {
			return fmt.Errorf("duplicate candidate id %s", c.ID)
		}
		byID[c.ID] = c
	}
	for _, e := range p.Edges {
		from, ok := byID[e.From]
		if !ok {
			return fmt.Errorf("edge references unknown candidate %s", e.From)
		}
		to, ok := byID[e.To]
		if !ok {
			return fmt.Errorf("edge references unknown candidate %s", e.To)
		}
		if from.Tier > to.Tier {
			return fmt.Errorf("edge %s -> %s crosses tiers backwards (%d -> %d)", from.Resource.ARN, to.Resource.ARN, from.Tier, to.Tier)
		}
	}
	return nil
}
