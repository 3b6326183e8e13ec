package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/log"
)

// fakeAdapter scripts per-stage behavior and records every call.
type fakeAdapter struct {
	rt         domain.ResourceType
	acceptance bool

	prepareFn  func(ctx context.Context, res domain.Resource) error
	deleteFn   func(ctx context.Context, res domain.Resource) error
	awaitFn    func(ctx context.Context, res domain.Resource) error
	classifyFn func(err error) domain.ErrorClass
	implicitFn func(ctx context.Context, res domain.Resource) ([]domain.Resource, error)

	mu    sync.Mutex
	calls []string
}

func newFakeAdapter(rt domain.ResourceType) *fakeAdapter {
	return &fakeAdapter{rt: rt}
}

func (f *fakeAdapter) record(stage string, res domain.Resource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s %s", stage, res.ARN))
}

func (f *fakeAdapter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAdapter) Type() domain.ResourceType { return f.rt }

func (f *fakeAdapter) Prepare(ctx context.Context, res domain.Resource) error {
	f.record("prepare", res)
	if f.prepareFn != nil {
		return f.prepareFn(ctx, res)
	}
	return nil
}

func (f *fakeAdapter) Delete(ctx context.Context, res domain.Resource) error {
	f.record("delete", res)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, res)
	}
	return nil
}

func (f *fakeAdapter) AwaitCompletion(ctx context.Context, res domain.Resource) error {
	f.record("await", res)
	if f.awaitFn != nil {
		return f.awaitFn(ctx, res)
	}
	return nil
}

func (f *fakeAdapter) ClassifyError(err error) domain.ErrorClass {
	if f.classifyFn != nil {
		return f.classifyFn(err)
	}
	if err == nil {
		return domain.ErrClassNone
	}
	return domain.ErrClassUnknown
}

func (f *fakeAdapter) CompletesOnAcceptance() bool { return f.acceptance }

func (f *fakeAdapter) ListImplicitDependents(ctx context.Context, res domain.Resource) ([]domain.Resource, error) {
	if f.implicitFn != nil {
		return f.implicitFn(ctx, res)
	}
	return nil, nil
}

// classified carries a fixed class through the fake adapter's classifier.
type classified struct {
	class domain.ErrorClass
	msg   string
}

func (e *classified) Error() string { return e.msg }

func classifyScripted(err error) domain.ErrorClass {
	if err == nil {
		return domain.ErrClassNone
	}
	if ce, ok := err.(*classified); ok {
		return ce.class
	}
	return domain.ErrClassUnknown
}

type fakeChecker struct {
	checkFn func(res domain.Resource) domain.ProtectionState
}

func (f *fakeChecker) Check(res domain.Resource) domain.ProtectionState {
	if f.checkFn != nil {
		return f.checkFn(res)
	}
	return domain.ProtectionState{}
}

// memoryStore accumulates audit writes in memory.
type memoryStore struct {
	mu       sync.Mutex
	appended []domain.AuditRecord
	ops      []domain.Operation
	flushed  [][]domain.AuditRecord
}

func (m *memoryStore) Append(_ context.Context, rec domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, rec)
	return nil
}

func (m *memoryStore) WriteOperation(_ context.Context, op domain.Operation, recs []domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	m.flushed = append(m.flushed, recs)
	return nil
}

func (m *memoryStore) ReadOperation(context.Context, string) (*ports.OperationLog, error) {
	return nil, nil
}

func (m *memoryStore) Query(context.Context, time.Time, time.Time) ([]ports.OperationLog, error) {
	return nil, nil
}

type fakeSnapshots struct {
	snaps map[string]*domain.Snapshot
}

func (f *fakeSnapshots) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	snap, ok := f.snaps[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %q does not exist", name)
	}
	return snap, nil
}

func (f *fakeSnapshots) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.snaps))
	for n := range f.snaps {
		names = append(names, n)
	}
	return names, nil
}

type fakeVerifier struct {
	account string
	err     error
}

func (f *fakeVerifier) CallerAccountID(context.Context) (string, error) {
	return f.account, f.err
}

func testLogger() ports.Logger { return log.Nop() }

func mkRes(arn string, rt domain.ResourceType) domain.Resource {
	return domain.Resource{
		ARN:       arn,
		Type:      rt,
		Name:      arn,
		Region:    "us-east-1",
		CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}
