package safety

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

// ruleEnv is the environment custom protection expressions evaluate against.
type ruleEnv struct {
	Type        string            `expr:"Type"`
	Name        string            `expr:"Name"`
	Region      string            `expr:"Region"`
	Tags        map[string]string `expr:"Tags"`
	AgeDays     float64           `expr:"AgeDays"`
	MonthlyCost float64           `expr:"MonthlyCost"`
}

// ExprRule is an operator-defined protection rule, e.g.
// `Type == "AWS::RDS::DBInstance" && Tags["env"] == "staging"`.
// Expressions are compiled once at config load and must yield a boolean.
type ExprRule struct {
	id      string
	source  string
	program *vm.Program
}

func CompileExprRule(id, source string) (*ExprRule, error) {
	program, err := expr.Compile(source, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation,
			fmt.Sprintf("invalid protection expression %q", source))
	}
	return &ExprRule{id: id, source: source, program: program}, nil
}

func (r *ExprRule) ID() string { return r.id }

func (r *ExprRule) Evaluate(res domain.Resource, now time.Time) (bool, string) {
	env := ruleEnv{
		Type:    string(res.Type),
		Name:    res.Name,
		Region:  res.Region,
		Tags:    res.Tags,
		AgeDays: res.AgeAt(now).Hours() / 24,
	}
	if env.Tags == nil {
		env.Tags = map[string]string{}
	}
	if res.MonthlyCost != nil {
		env.MonthlyCost, _ = res.MonthlyCost.Float64()
	}

	out, err := expr.Run(r.program, env)
	if err != nil {
		// A broken expression protects rather than deletes.
		return true, fmt.Sprintf("protection expression %q failed to evaluate: %v", r.source, err)
	}
	if matched, _ := out.(bool); matched {
		return true, fmt.Sprintf("matched protection expression %q", r.source)
	}
	return false, ""
}
