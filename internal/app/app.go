package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tayodev/snapback/internal/config"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/core/service"
	"github.com/tayodev/snapback/internal/errors"
)

// Application ties the planner, orchestrator and presentation together behind
// the three CLI verbs.
type Application struct {
	Logger   ports.Logger
	Config   *config.Config
	Planner  *service.Planner
	Executor *service.Orchestrator
	Reporter ports.Reporter
	Audit    ports.AuditStore
}

// Preview builds the plan and reports it without issuing a single mutating
// call. A non-empty planOut persists the plan artifact for a later execute
// --plan-in.
func (a *Application) Preview(ctx context.Context, req service.PlanRequest, planOut string) (*domain.RestoreReport, error) {
	plan, err := a.Planner.BuildPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	if planOut != "" {
		if err := WritePlanFile(planOut, plan); err != nil {
			return nil, err
		}
		a.Logger.Infof(ctx, "Wrote plan %s to %s", plan.OperationID, planOut)
	}
	report, err := a.Executor.Execute(ctx, plan, domain.ModeDryRun)
	if err != nil {
		return nil, err
	}
	if err := a.Reporter.Report(ctx, report); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to render preview report")
	}
	return report, nil
}

// Execute rebuilds the plan from fresh provider state and runs the deletion
// state machine. The confirm flag is the only path to a mutating run. When
// planIn names a saved plan, the fresh plan is checked against it and every
// saved candidate that is no longer in scope is surfaced before anything
// runs; execution always acts on the fresh plan.
func (a *Application) Execute(ctx context.Context, req service.PlanRequest, planIn string, confirmed bool) (*domain.RestoreReport, error) {
	if !confirmed {
		return nil, errors.NewUserFacing(errors.CodeConfirmationMissing,
			"execute requires explicit confirmation",
			"Re-run with --confirm to delete the listed resources, or use preview first.")
	}

	plan, err := a.Planner.BuildPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	if planIn != "" {
		saved, err := ReadPlanFile(planIn)
		if err != nil {
			return nil, err
		}
		dropped, err := service.Revalidate(saved, plan)
		if err != nil {
			return nil, err
		}
		for _, arn := range dropped {
			a.Logger.Warnf(ctx, "Saved plan candidate %s is no longer in scope; it will not be deleted", arn)
		}
		if len(dropped) > 0 {
			a.Logger.Warnf(ctx, "Saved plan %s drifted: %d of %d candidates dropped since preview",
				saved.OperationID, len(dropped), len(saved.Candidates))
		}
	}
	a.Logger.Infof(ctx, "Executing restore %s: %d candidates, %d protected",
		plan.OperationID, len(plan.Candidates), len(plan.Blocked))

	report, err := a.Executor.Execute(ctx, plan, domain.ModeExecute)
	if err != nil {
		return nil, err
	}
	if err := a.Reporter.Report(ctx, report); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to render restore report")
	}
	return report, nil
}

// ShowOperation prints one persisted operation log by id.
func (a *Application) ShowOperation(ctx context.Context, operationID string) (*ports.OperationLog, error) {
	return a.Audit.ReadOperation(ctx, operationID)
}

// ListOperations returns persisted operations inside the window, oldest
// first. A zero until means now.
func (a *Application) ListOperations(ctx context.Context, since, until time.Time) ([]ports.OperationLog, error) {
	if until.IsZero() {
		until = time.Now().UTC()
	}
	if !since.Before(until) {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("audit window is empty: since %s is not before until %s", since, until),
			"Pass --since earlier than --until.")
	}
	return a.Audit.Query(ctx, since, until)
}
