package safety

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
)

var checkerNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func protectedRes(fn func(*domain.Resource)) domain.Resource {
	res := domain.Resource{
		ARN:       "arn:aws:ec2:us-east-1:111122223333:instance/i-1",
		Type:      domain.TypeEC2Instance,
		Name:      "i-1",
		Region:    "us-east-1",
		CreatedAt: checkerNow.Add(-30 * 24 * time.Hour),
	}
	if fn != nil {
		fn(&res)
	}
	return res
}

func TestCheckerFirstMatchWins(t *testing.T) {
	checker := NewChecker([]Rule{
		TagOverrideRule{Keys: []string{"do-not-delete"}},
		TypeBlocklistRule{Types: []domain.ResourceType{domain.TypeEC2Instance}},
	}, WithClock(func() time.Time { return checkerNow }))

	// Both rules match; the first supplies the reason.
	verdict := checker.Check(protectedRes(func(r *domain.Resource) {
		r.Tags = map[string]string{"do-not-delete": "true"}
	}))
	require.True(t, verdict.Blocked)
	assert.Contains(t, verdict.Reason, "do-not-delete")
	assert.Contains(t, verdict.Reason, "(rule: tag-override)")
}

func TestTagOverrideRule(t *testing.T) {
	rule := TagOverrideRule{Keys: []string{"snapback:preserve", "do-not-delete"}}

	matched, reason := rule.Evaluate(protectedRes(func(r *domain.Resource) {
		r.Tags = map[string]string{"do-not-delete": "yes"}
	}), checkerNow)
	assert.True(t, matched)
	assert.Contains(t, reason, "do-not-delete=yes")

	matched, _ = rule.Evaluate(protectedRes(func(r *domain.Resource) {
		r.Tags = map[string]string{"env": "dev"}
	}), checkerNow)
	assert.False(t, matched)
}

func TestTypeBlocklistRule(t *testing.T) {
	rule := TypeBlocklistRule{Types: []domain.ResourceType{domain.TypeIAMUser}}

	t.Run("listed type", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.Type = domain.TypeIAMUser
		}), checkerNow)
		assert.True(t, matched)
	})

	t.Run("default vpc", func(t *testing.T) {
		matched, reason := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.Type = domain.TypeEC2VPC
			r.Metadata = map[string]any{"is_default": true}
		}), checkerNow)
		assert.True(t, matched)
		assert.Contains(t, reason, "provider-managed")
	})

	t.Run("default security group", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.Type = domain.TypeEC2SecurityGroup
			r.Name = "default"
		}), checkerNow)
		assert.True(t, matched)
	})

	t.Run("aws managed policy", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.Type = domain.TypeIAMPolicy
			r.ARN = "arn:aws:iam::aws:policy/AdministratorAccess"
		}), checkerNow)
		assert.True(t, matched)
	})

	t.Run("service linked role", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.Type = domain.TypeIAMRole
			r.Metadata = map[string]any{"path": "/aws-service-role/elasticloadbalancing.amazonaws.com/"}
		}), checkerNow)
		assert.True(t, matched)
	})

	t.Run("ordinary resource passes", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(nil), checkerNow)
		assert.False(t, matched)
	})
}

func TestMinimumAgeRule(t *testing.T) {
	rule := MinimumAgeRule{Grace: 7 * 24 * time.Hour}

	matched, reason := rule.Evaluate(protectedRes(func(r *domain.Resource) {
		r.CreatedAt = checkerNow.Add(-time.Hour)
	}), checkerNow)
	assert.True(t, matched)
	assert.Contains(t, reason, "grace period")

	matched, _ = rule.Evaluate(protectedRes(nil), checkerNow)
	assert.False(t, matched)

	t.Run("zero created at passes", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.CreatedAt = time.Time{}
		}), checkerNow)
		assert.False(t, matched)
	})
}

func TestCostCeilingRule(t *testing.T) {
	limit := decimal.NewFromInt(500)
	cost := decimal.NewFromFloat(812.40)

	rule := CostCeilingRule{Limit: limit}

	matched, reason := rule.Evaluate(protectedRes(func(r *domain.Resource) {
		r.MonthlyCost = &cost
	}), checkerNow)
	assert.True(t, matched)
	assert.Contains(t, reason, "812.40")
	assert.Contains(t, reason, "500.00")

	t.Run("override disables ceiling", func(t *testing.T) {
		rule := CostCeilingRule{Limit: limit, Override: true}
		matched, _ := rule.Evaluate(protectedRes(func(r *domain.Resource) {
			r.MonthlyCost = &cost
		}), checkerNow)
		assert.False(t, matched)
	})

	t.Run("no cost estimate passes", func(t *testing.T) {
		matched, _ := rule.Evaluate(protectedRes(nil), checkerNow)
		assert.False(t, matched)
	})
}

func TestExprRule(t *testing.T) {
	rule, err := CompileExprRule("prod-db", `Type == "AWS::RDS::DBInstance" && Tags["env"] == "prod"`)
	require.NoError(t, err)
	assert.Equal(t, "prod-db", rule.ID())

	matched, reason := rule.Evaluate(protectedRes(func(r *domain.Resource) {
		r.Type = domain.TypeRDSDBInstance
		r.Tags = map[string]string{"env": "prod"}
	}), checkerNow)
	assert.True(t, matched)
	assert.Contains(t, reason, "matched protection expression")

	matched, _ = rule.Evaluate(protectedRes(nil), checkerNow)
	assert.False(t, matched)

	t.Run("age environment", func(t *testing.T) {
		rule, err := CompileExprRule("old", `AgeDays > 10`)
		require.NoError(t, err)
		matched, _ := rule.Evaluate(protectedRes(nil), checkerNow)
		assert.True(t, matched)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := CompileExprRule("bad", `Type ==`)
		require.Error(t, err)
	})

	t.Run("non boolean expression", func(t *testing.T) {
		_, err := CompileExprRule("notbool", `Name`)
		require.Error(t, err)
	})
}

func TestCheckerPartition(t *testing.T) {
	checker := NewChecker([]Rule{
		TagOverrideRule{Keys: []string{"do-not-delete"}},
	}, WithClock(func() time.Time { return checkerNow }))

	keep := protectedRes(func(r *domain.Resource) {
		r.ARN = "arn:aws:ec2:us-east-1:111122223333:instance/i-keep"
		r.Tags = map[string]string{"do-not-delete": "true"}
	})
	remove := protectedRes(nil)

	allowed, blocked := checker.Partition([]domain.Resource{keep, remove})
	require.Len(t, allowed, 1)
	assert.Equal(t, remove.ARN, allowed[0].ARN)
	require.Len(t, blocked, 1)
	assert.Equal(t, keep.ARN, blocked[0].Resource.ARN)
}
