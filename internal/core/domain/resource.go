package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Resource is a provider object captured in a snapshot. Immutable once captured;
// the restoration core only reads it.
type Resource struct {
	ARN         string            `json:"arn"`
	Type        ResourceType      `json:"type"`
	Name        string            `json:"name"` // provider identifier (instance ID, bucket name, ...)
	Region      string            `json:"region"`
	Tags        map[string]string `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ConfigHash  string            `json:"config_hash,omitempty"`
	MonthlyCost *decimal.Decimal  `json:"estimated_monthly_cost,omitempty"`

	// References holds ARNs of resources this resource points at, e.g. a subnet
	// referencing its VPC. The referencing resource must be deleted first.
	References []string       `json:"references,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// AgeAt returns the resource age relative to now.
func (r Resource) AgeAt(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

// Snapshot is an immutable inventory of an account at a point in time.
type Snapshot struct {
	Name      string     `json:"name"`
	AccountID string     `json:"account_id"`
	Regions   []string   `json:"regions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Resources []Resource `json:"resources"`
}

// ARNSet returns the snapshot's ARNs as a set. ARNs are unique per snapshot.
func (s *Snapshot) ARNSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Resources))
	for _, r := range s.Resources {
		set[r.ARN] = struct{}{}
	}
	return set
}

// Validate enforces snapshot invariants: non-empty identity and ARN uniqueness.
func (s *Snapshot) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("snapshot has no name")
	}
	if s.AccountID == "" {
		return fmt.Errorf("snapshot %q has no account id", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Resources))
	for _, r := range s.Resources {
		if r.ARN == "" {
			return fmt.Errorf("snapshot %q contains a resource without an ARN (type %s, name %s)", s.Name, r.Type, r.Name)
		}
		if _, dup := seen[r.ARN]; dup {
			return fmt.Errorf("snapshot %q contains duplicate ARN %s", s.Name, r.ARN)
		}
		seen[r.ARN] = struct{}{}
	}
	return nil
}
