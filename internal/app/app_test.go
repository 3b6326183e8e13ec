package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/core/service"
	"github.com/tayodev/snapback/internal/errors"
)

type captureLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *captureLogger) Debugf(context.Context, string, ...any) {}
func (l *captureLogger) Infof(context.Context, string, ...any)  {}
func (l *captureLogger) Warnf(_ context.Context, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Errorf(context.Context, error, string, ...any) {}
func (l *captureLogger) WithFields(map[string]any) ports.Logger        { return l }

func (l *captureLogger) Warns() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

type stubSnapshots struct {
	snaps map[string]*domain.Snapshot
}

func (s *stubSnapshots) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	snap, ok := s.snaps[name]
	if !ok {
		return nil, errors.New(errors.CodeSnapshotNotFound, "no snapshot named "+name)
	}
	return snap, nil
}

func (s *stubSnapshots) List(context.Context) ([]string, error) { return nil, nil }

type stubVerifier struct{ account string }

func (v *stubVerifier) CallerAccountID(context.Context) (string, error) { return v.account, nil }

type allowAllChecker struct{}

func (allowAllChecker) Check(domain.Resource) domain.ProtectionState {
	return domain.ProtectionState{}
}

type stubAdapter struct{ rt domain.ResourceType }

func (a *stubAdapter) Type() domain.ResourceType                          { return a.rt }
func (a *stubAdapter) Prepare(context.Context, domain.Resource) error     { return nil }
func (a *stubAdapter) Delete(context.Context, domain.Resource) error      { return nil }
func (a *stubAdapter) AwaitCompletion(context.Context, domain.Resource) error {
	return nil
}
func (a *stubAdapter) ClassifyError(error) domain.ErrorClass { return domain.ErrClassUnknown }
func (a *stubAdapter) CompletesOnAcceptance() bool           { return false }
func (a *stubAdapter) ListImplicitDependents(context.Context, domain.Resource) ([]domain.Resource, error) {
	return nil, nil
}

type stubReporter struct{}

func (stubReporter) Report(context.Context, *domain.RestoreReport) error { return nil }

type stubStore struct{}

func (stubStore) Append(context.Context, domain.AuditRecord) error { return nil }
func (stubStore) WriteOperation(context.Context, domain.Operation, []domain.AuditRecord) error {
	return nil
}
func (stubStore) ReadOperation(context.Context, string) (*ports.OperationLog, error) {
	return nil, nil
}
func (stubStore) Query(context.Context, time.Time, time.Time) ([]ports.OperationLog, error) {
	return nil, nil
}

func table(n int) domain.Resource {
	return domain.Resource{
		ARN:       fmt.Sprintf("arn:aws:dynamodb:us-east-1:111122223333:table/orders-%d", n),
		Type:      domain.TypeDynamoDBTable,
		Name:      fmt.Sprintf("orders-%d", n),
		Region:    "us-east-1",
		CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func snap(name string, resources ...domain.Resource) *domain.Snapshot {
	return &domain.Snapshot{
		Name:      name,
		AccountID: "111122223333",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Resources: resources,
	}
}

func newTestApplication(t *testing.T, snaps map[string]*domain.Snapshot, logger *captureLogger) *Application {
	t.Helper()

	registry := service.NewAdapterRegistry()
	require.NoError(t, registry.Register(&stubAdapter{rt: domain.TypeDynamoDBTable}))

	checker := allowAllChecker{}
	resolver := service.NewResolver(registry, checker, logger)
	planner, err := service.NewPlanner(&stubSnapshots{snaps: snaps}, &stubVerifier{account: "111122223333"}, checker, resolver, logger)
	require.NoError(t, err)
	executor, err := service.NewOrchestrator(registry, resolver, stubStore{}, logger)
	require.NoError(t, err)

	return &Application{
		Logger:   logger,
		Planner:  planner,
		Executor: executor,
		Reporter: stubReporter{},
		Audit:    stubStore{},
	}
}

func TestPreviewWritesPlanArtifact(t *testing.T) {
	snaps := map[string]*domain.Snapshot{
		"base": snap("base"),
		"curr": snap("curr", table(1), table(2)),
	}
	a := newTestApplication(t, snaps, &captureLogger{})
	planPath := filepath.Join(t.TempDir(), "plan.json")

	req := service.PlanRequest{Baseline: "base", Current: "curr"}
	report, err := a.Preview(context.Background(), req, planPath)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Planned)

	plan, err := ReadPlanFile(planPath)
	require.NoError(t, err)
	assert.Equal(t, report.Operation.OperationID, plan.OperationID)
	assert.Equal(t, "base", plan.BaselineSnapshot)
	require.Len(t, plan.Candidates, 2)
	assert.Equal(t, table(1).ARN, plan.Candidates[0].Resource.ARN)
}

func TestExecuteSurfacesDroppedPlanCandidates(t *testing.T) {
	snaps := map[string]*domain.Snapshot{
		"base":  snap("base"),
		"curr1": snap("curr1", table(1), table(2)),
		"curr2": snap("curr2", table(1)),
	}
	logger := &captureLogger{}
	a := newTestApplication(t, snaps, logger)
	planPath := filepath.Join(t.TempDir(), "plan.json")

	_, err := a.Preview(context.Background(), service.PlanRequest{Baseline: "base", Current: "curr1"}, planPath)
	require.NoError(t, err)

	// orders-2 was removed between preview and execute, so the saved plan
	// carries a candidate the fresh plan no longer has.
	report, err := a.Execute(context.Background(), service.PlanRequest{Baseline: "base", Current: "curr2"}, planPath, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Planned)
	assert.Equal(t, 1, report.Succeeded)

	warns := logger.Warns()
	require.NotEmpty(t, warns)
	var droppedWarn, summaryWarn bool
	for _, w := range warns {
		if strings.Contains(w, table(2).ARN) && strings.Contains(w, "no longer in scope") {
			droppedWarn = true
		}
		if strings.Contains(w, "drifted") {
			summaryWarn = true
		}
	}
	assert.True(t, droppedWarn, "expected a warning naming the dropped ARN, got %v", warns)
	assert.True(t, summaryWarn, "expected a drift summary warning, got %v", warns)
}

func TestExecuteRejectsPlanFromOtherBaseline(t *testing.T) {
	snaps := map[string]*domain.Snapshot{
		"base": snap("base"),
		"curr": snap("curr", table(1)),
	}
	a := newTestApplication(t, snaps, &captureLogger{})
	planPath := filepath.Join(t.TempDir(), "plan.json")

	_, err := a.Preview(context.Background(), service.PlanRequest{Baseline: "base", Current: "curr"}, planPath)
	require.NoError(t, err)

	saved, err := ReadPlanFile(planPath)
	require.NoError(t, err)
	saved.BaselineSnapshot = "other-base"
	require.NoError(t, WritePlanFile(planPath, saved))

	_, err = a.Execute(context.Background(), service.PlanRequest{Baseline: "base", Current: "curr"}, planPath, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePlanInvalid))
}

func TestExecuteRequiresConfirmation(t *testing.T) {
	a := newTestApplication(t, map[string]*domain.Snapshot{}, &captureLogger{})
	_, err := a.Execute(context.Background(), service.PlanRequest{Baseline: "base", Current: "curr"}, "", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfirmationMissing))
}

