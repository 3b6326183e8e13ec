package safety

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tayodev/snapback/internal/core/domain"
)

// Rule is one ordered protection rule. First match denies; the reason is shown
// to the operator verbatim.
type Rule interface {
	ID() string
	Evaluate(res domain.Resource, now time.Time) (matched bool, reason string)
}

// TagOverrideRule denies any resource carrying one of the protection tag keys.
type TagOverrideRule struct {
	Keys []string
}

func (r TagOverrideRule) ID() string { return "tag-override" }

func (r TagOverrideRule) Evaluate(res domain.Resource, _ time.Time) (bool, string) {
	for _, key := range r.Keys {
		if val, ok := res.Tags[key]; ok {
			return true, fmt.Sprintf("protection tag %s=%s present", key, val)
		}
	}
	return false, ""
}

// TypeBlocklistRule unconditionally denies provider-managed objects: default
// networks, AWS-managed policies, service-linked roles and anything on the
// configured hard block-list.
type TypeBlocklistRule struct {
	Types []domain.ResourceType
}

func (r TypeBlocklistRule) ID() string { return "type-blocklist" }

func (r TypeBlocklistRule) Evaluate(res domain.Resource, _ time.Time) (bool, string) {
	for _, t := range r.Types {
		if res.Type == t {
			return true, fmt.Sprintf("resource type %s is on the hard block-list", res.Type)
		}
	}
	if isProviderManaged(res) {
		return true, fmt.Sprintf("%s is provider-managed", res.Name)
	}
	return false, ""
}

func isProviderManaged(res domain.Resource) bool {
	switch res.Type {
	case domain.TypeEC2VPC:
		if isDefault, _ := res.Metadata["is_default"].(bool); isDefault {
			return true
		}
	case domain.TypeEC2SecurityGroup:
		if res.Name == "default" {
			return true
		}
	case domain.TypeIAMPolicy:
		if strings.HasPrefix(res.ARN, "arn:aws:iam::aws:policy/") {
			return true
		}
	case domain.TypeIAMRole:
		if path, _ := res.Metadata["path"].(string); strings.HasPrefix(path, "/aws-service-role/") {
			return true
		}
	}
	return false
}

// MinimumAgeRule denies resources younger than the grace period, protecting
// against racing in-flight provisioning.
type MinimumAgeRule struct {
	Grace time.Duration
}

func (r MinimumAgeRule) ID() string { return "minimum-age" }

func (r MinimumAgeRule) Evaluate(res domain.Resource, now time.Time) (bool, string) {
	if r.Grace <= 0 || res.CreatedAt.IsZero() {
		return false, ""
	}
	if age := res.AgeAt(now); age < r.Grace {
		return true, fmt.Sprintf("resource age %s below grace period %s", age.Round(time.Second), r.Grace)
	}
	return false, ""
}

// CostCeilingRule denies resources whose estimated monthly cost exceeds the
// limit, unless the override flag is set.
type CostCeilingRule struct {
	Limit    decimal.Decimal
	Override bool
}

func (r CostCeilingRule) ID() string { return "cost-ceiling" }

func (r CostCeilingRule) Evaluate(res domain.Resource, _ time.Time) (bool, string) {
	if r.Override || r.Limit.IsZero() || res.MonthlyCost == nil {
		return false, ""
	}
	if res.MonthlyCost.GreaterThan(r.Limit) {
		return true, fmt.Sprintf("estimated cost $%s/month exceeds ceiling $%s", res.MonthlyCost.StringFixed(2), r.Limit.StringFixed(2))
	}
	return false, ""
}
