package service

import (
	"context"
	stderrs "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

const (
	defaultWorkersPerTier = 5
	defaultPrepareTimeout = 120 * time.Second
	defaultAwaitTimeout   = 300 * time.Second
)

// Orchestrator drives candidates through the DAG: tiers strictly 1→5, a
// bounded worker pool per tier, one shared retry policy. Candidate state is
// written by exactly one worker at a time; the scheduler only learns terminal
// states through the completion channel, so eligibility checks never race.
type Orchestrator struct {
	registry *AdapterRegistry
	resolver *Resolver
	policy   RetryPolicy
	store    ports.AuditStore
	logger   ports.Logger

	workers        int
	prepareTimeout time.Duration
	awaitTimeout   time.Duration

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type OrchestratorOption func(*Orchestrator)

func WithWorkersPerTier(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithTimeouts(prepare, await time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if prepare > 0 {
			o.prepareTimeout = prepare
		}
		if await > 0 {
			o.awaitTimeout = await
		}
	}
}

func WithRetryPolicy(p RetryPolicy) OrchestratorOption {
	return func(o *Orchestrator) { o.policy = p }
}

// WithSleeper overrides retry-delay waiting, for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) OrchestratorOption {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

func NewOrchestrator(
	registry *AdapterRegistry,
	resolver *Resolver,
	store ports.AuditStore,
	logger ports.Logger,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New(errors.CodeConfigValidation, "adapter registry cannot be nil")
	}
	if resolver == nil {
		return nil, errors.New(errors.CodeConfigValidation, "resolver cannot be nil")
	}

	o := &Orchestrator{
		registry:       registry,
		resolver:       resolver,
		policy:         DefaultRetryPolicy(),
		store:          store,
		logger:         logger,
		workers:        defaultWorkersPerTier,
		prepareTimeout: defaultPrepareTimeout,
		awaitTimeout:   defaultAwaitTimeout,
		now:            time.Now,
	}
	o.sleep = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// candidateRun is the orchestrator's mutable execution state for one
// candidate. Mutated only by the single worker currently executing it, or by
// the scheduler while it is not dispatched.
type candidateRun struct {
	cand     *domain.DeletionCandidate
	state    domain.CandidateState
	attempts int
	counters Counters

	errClass       domain.ErrorClass
	errMsg         string
	cancelledAfter bool

	// repair request handed back to the scheduler
	repairRequested bool
	repairBlocker   *domain.Resource

	preds []domain.CandidateID
}

type execution struct {
	op    *domain.Operation
	runs  map[domain.CandidateID]*candidateRun
	order []*candidateRun

	// final holds terminal states as observed by the scheduler; eligibility
	// and cascading consult only this map.
	final map[domain.CandidateID]domain.CandidateState

	mu      sync.Mutex
	records []domain.AuditRecord

	cancelled bool
}

// Execute runs the plan. In dry-run mode it produces the identical ordered
// plan annotations and returns before any prepare/delete/await call: zero
// mutating calls are issued.
func (o *Orchestrator) Execute(ctx context.Context, plan *domain.RestorePlan, mode domain.OperationMode) (*domain.RestoreReport, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodePlanInvalid, "refusing to execute invalid plan")
	}

	ex := &execution{
		op: &domain.Operation{
			OperationID:      plan.OperationID,
			BaselineSnapshot: plan.BaselineSnapshot,
			CurrentSnapshot:  plan.CurrentSnapshot,
			AccountID:        plan.AccountID,
			Mode:             mode,
			Status:           domain.OpStatusPlanned,
			TotalResources:   len(plan.Candidates),
			ProtectedCount:   len(plan.Blocked),
			StartedAt:        o.now().UTC(),
		},
		runs:  make(map[domain.CandidateID]*candidateRun, len(plan.Candidates)),
		final: make(map[domain.CandidateID]domain.CandidateState, len(plan.Candidates)),
	}

	for _, cand := range plan.Candidates {
		run := &candidateRun{cand: cand, state: domain.StatePending}
		ex.runs[cand.ID] = run
		ex.order = append(ex.order, run)
	}
	for _, edge := range plan.Edges {
		if run, ok := ex.runs[edge.To]; ok {
			run.preds = append(run.preds, edge.From)
		}
	}

	if mode == domain.ModeDryRun {
		ex.op.CompletedAt = o.now().UTC()
		return o.report(plan, ex), nil
	}

	for tier := domain.TierMin; tier <= domain.TierMax; tier++ {
		var tierRuns []*candidateRun
		for _, run := range ex.order {
			if run.cand.Tier == tier {
				tierRuns = append(tierRuns, run)
			}
		}
		if len(tierRuns) == 0 {
			continue
		}
		o.logger.Infof(ctx, "Tier %d: %d candidates", tier, len(tierRuns))
		o.runTier(ctx, ex, tier, tierRuns)
	}

	o.finishOperation(ex)

	if o.store != nil {
		if err := o.store.WriteOperation(context.WithoutCancel(ctx), *ex.op, ex.records); err != nil {
			// Audit failures never block the run; the in-memory report below
			// is produced regardless.
			o.logger.Errorf(ctx, err, "failed to persist operation audit log")
		}
	}

	return o.report(plan, ex), nil
}

// runTier dispatches a single tier's candidates to the worker pool and blocks
// until every one of them is terminal. Candidates are removed from the
// pending set before dispatch, so exactly one worker ever executes a run.
func (o *Orchestrator) runTier(ctx context.Context, ex *execution, tier domain.Tier, tierRuns []*candidateRun) {
	pending := make(map[domain.CandidateID]*candidateRun, len(tierRuns))
	for _, run := range tierRuns {
		pending[run.cand.ID] = run
	}

	ready := make(chan *candidateRun)
	done := make(chan *candidateRun)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range ready {
				o.process(ctx, ex, run)
				done <- run
			}
		}()
	}

	var queue []*candidateRun
	inflight := 0

	promote := func() {
		if ex.cancelled {
			// Cancellation stops new dispatch immediately, including
			// candidates already promoted but not yet picked up.
			for _, run := range queue {
				pending[run.cand.ID] = run
			}
			queue = nil
			for id, run := range pending {
				run.state = domain.StateFailed
				run.errClass = domain.ErrClassUnknown
				run.errMsg = "run cancelled before dispatch"
				run.cancelledAfter = true
				o.record(ctx, ex, run, "", domain.StateFailed)
				ex.final[id] = domain.StateFailed
				delete(pending, id)
			}
			return
		}
		for {
			moved := false
			for id, run := range pending {
				if failedPred, arn := o.failedPrereq(ex, run); failedPred {
					// Cascading rule: a candidate whose prerequisite failed is
					// failed without its delete ever being invoked.
					run.state = domain.StateFailed
					run.errClass = domain.ErrClassDependency
					run.errMsg = "prerequisite " + arn + " did not reach terminal success"
					o.record(ctx, ex, run, "", domain.StateFailed)
					ex.final[id] = domain.StateFailed
					delete(pending, id)
					moved = true
					continue
				}
				if o.eligible(ex, run) {
					delete(pending, id)
					queue = append(queue, run)
					moved = true
				}
			}
			if !moved {
				return
			}
		}
	}

	for {
		if ctx.Err() != nil && !ex.cancelled {
			ex.cancelled = true
			o.logger.Warnf(ctx, "Cancellation observed; no further candidates will be dispatched")
		}
		promote()

		if len(pending) == 0 && len(queue) == 0 && inflight == 0 {
			break
		}

		if len(queue) > 0 {
			select {
			case ready <- queue[0]:
				queue = queue[1:]
				inflight++
			case run := <-done:
				inflight--
				o.settle(ctx, ex, tier, pending, run)
			}
			continue
		}

		run := <-done
		inflight--
		o.settle(ctx, ex, tier, pending, run)
	}

	close(ready)
	wg.Wait()
}

// settle handles a completed worker result: either a terminal state or a
// dependency-repair request that re-queues the candidate behind a newly
// synthesized prerequisite.
func (o *Orchestrator) settle(ctx context.Context, ex *execution, tier domain.Tier, pending map[domain.CandidateID]*candidateRun, run *candidateRun) {
	if !run.repairRequested {
		ex.final[run.cand.ID] = run.state
		if ex.cancelled {
			run.cancelledAfter = true
		}
		return
	}

	run.repairRequested = false
	blocker := run.repairBlocker
	run.repairBlocker = nil

	if ex.cancelled {
		run.state = domain.StateFailed
		run.errClass = domain.ErrClassDependency
		run.errMsg = "run cancelled during dependency repair"
		run.cancelledAfter = true
		o.record(ctx, ex, run, "", domain.StateFailed)
		ex.final[run.cand.ID] = domain.StateFailed
		return
	}

	if blocker == nil {
		// The provider did not name the blocker; requeue and let the bounded
		// repair count decide if this loops.
		run.state = domain.StatePending
		pending[run.cand.ID] = run
		return
	}

	synth, err := o.resolver.SynthesizeBlocker(ctx, *blocker, run.cand)
	if err != nil {
		run.state = domain.StateFailed
		run.errClass = domain.ErrClassDependency
		run.errMsg = err.Error()
		o.record(ctx, ex, run, "", domain.StateFailed)
		ex.final[run.cand.ID] = domain.StateFailed
		return
	}

	synthRun := &candidateRun{cand: synth, state: domain.StatePending}
	ex.runs[synth.ID] = synthRun
	ex.order = append(ex.order, synthRun)
	ex.op.TotalResources++
	pending[synth.ID] = synthRun

	run.preds = append(run.preds, synth.ID)
	run.state = domain.StatePending
	pending[run.cand.ID] = run
}

func (o *Orchestrator) eligible(ex *execution, run *candidateRun) bool {
	for _, pred := range run.preds {
		state, terminal := ex.final[pred]
		if !terminal || !state.TerminalSuccess() {
			return false
		}
	}
	return true
}

func (o *Orchestrator) failedPrereq(ex *execution, run *candidateRun) (bool, string) {
	if len(run.cand.BlockedPrereqs) > 0 {
		return true, run.cand.BlockedPrereqs[0] + " (protected)"
	}
	for _, pred := range run.preds {
		if state, terminal := ex.final[pred]; terminal && !state.TerminalSuccess() {
			if predRun, ok := ex.runs[pred]; ok {
				return true, predRun.cand.Resource.ARN
			}
			return true, string(pred)
		}
	}
	return false, ""
}

// process runs the full per-candidate state machine on the calling worker.
// Suspension happens only inside adapter calls and retry waits; in-flight
// calls are allowed to finish after cancellation and are flagged.
func (o *Orchestrator) process(ctx context.Context, ex *execution, run *candidateRun) {
	adapter, err := o.registry.Get(run.cand.Resource.Type)
	if err != nil {
		o.terminal(ctx, ex, run, domain.StateFailed, domain.ErrClassUnknown, err.Error())
		return
	}

	res := run.cand.Resource

	// Prepare
	run.counters.StateAttempts, run.counters.ThrottleAttempts = 0, 0
	if o.callStage(ctx, ex, run, adapter, domain.StagePrepare, domain.StatePreparing, func(c context.Context) error {
		pc, cancel := context.WithTimeout(c, o.prepareTimeout)
		defer cancel()
		return adapter.Prepare(pc, res)
	}) {
		return
	}
	if run.cancelledAfter {
		// Prepare finished after the cancel signal; the delete call is never
		// started once cancellation is observed.
		o.terminal(ctx, ex, run, domain.StateFailed, domain.ErrClassUnknown, "run cancelled after prepare")
		return
	}

	// Delete
	run.counters.StateAttempts, run.counters.ThrottleAttempts = 0, 0
	if o.callStage(ctx, ex, run, adapter, domain.StageDelete, domain.StateDeleting, func(c context.Context) error {
		return adapter.Delete(c, res)
	}) {
		return
	}

	if adapter.CompletesOnAcceptance() {
		// Provider-scheduled deletion: successful scheduling is terminal
		// success, the recovery window is never waited out.
		o.terminal(ctx, ex, run, domain.StateSucceeded, domain.ErrClassNone, "")
		return
	}
	if run.cancelledAfter {
		// Deletion was successfully requested; we just do not poll for it.
		o.terminal(ctx, ex, run, domain.StateSucceeded, domain.ErrClassNone, "")
		return
	}

	// Await
	run.counters.StateAttempts, run.counters.ThrottleAttempts = 0, 0
	if o.callStage(ctx, ex, run, adapter, domain.StageAwait, domain.StateAwaitingCompletion, func(c context.Context) error {
		ac, cancel := context.WithTimeout(c, o.awaitTimeout)
		defer cancel()
		return adapter.AwaitCompletion(ac, res)
	}) {
		return
	}

	o.terminal(ctx, ex, run, domain.StateSucceeded, domain.ErrClassNone, "")
}

// callStage executes one stage with the shared retry table. It returns true
// when processing must stop: the candidate is terminal or handed back to the
// scheduler for dependency repair.
func (o *Orchestrator) callStage(
	ctx context.Context,
	ex *execution,
	run *candidateRun,
	adapter ports.ServiceAdapter,
	stage domain.Stage,
	stageState domain.CandidateState,
	call func(context.Context) error,
) bool {
	for {
		run.attempts++
		run.state = stageState
		run.errClass, run.errMsg = domain.ErrClassNone, ""
		o.record(ctx, ex, run, stage, stageState)

		err := call(context.WithoutCancel(ctx))
		if ctx.Err() != nil {
			run.cancelledAfter = true
		}

		if err == nil {
			return false
		}

		class := adapter.ClassifyError(err)
		switch class {
		case domain.ErrClassState:
			run.counters.StateAttempts++
		case domain.ErrClassThrottle:
			run.counters.ThrottleAttempts++
		case domain.ErrClassDependency:
			if stage == domain.StageDelete {
				run.counters.Repairs++
			}
		}

		decision := o.policy.Decide(class, stage, run.counters)
		switch decision.Action {
		case ActionSkip:
			o.terminal(ctx, ex, run, domain.StateSkipped, domain.ErrClassNotFound, err.Error())
			return true

		case ActionFail:
			o.terminal(ctx, ex, run, domain.StateFailed, class, err.Error())
			return true

		case ActionRepair:
			var blocked *domain.DependencyBlockedError
			if stderrs.As(err, &blocked) {
				run.repairBlocker = blocked.Blocker
			}
			run.repairRequested = true
			run.state = domain.StatePending
			run.errClass = class
			run.errMsg = err.Error()
			o.record(ctx, ex, run, stage, domain.StatePending)
			return true

		case ActionRetry:
			if run.cancelledAfter {
				// No further retries once cancellation is observed.
				o.terminal(ctx, ex, run, domain.StateFailed, class, "run cancelled while retrying: "+err.Error())
				return true
			}
			// The failed attempt goes to the trail with its class so a
			// replay shows every throttle and state bounce, not just the
			// terminal outcome.
			run.errClass = class
			run.errMsg = err.Error()
			o.record(ctx, ex, run, stage, stageState)
			o.logger.Debugf(ctx, "Retrying %s of %s in %s (%s)", stage, run.cand.Resource.ARN, decision.Delay, decision.Reason)
			if werr := o.sleep(ctx, decision.Delay); werr != nil {
				run.cancelledAfter = true
				o.terminal(ctx, ex, run, domain.StateFailed, class, "run cancelled while waiting to retry: "+err.Error())
				return true
			}
		}
	}
}

func (o *Orchestrator) terminal(ctx context.Context, ex *execution, run *candidateRun, state domain.CandidateState, class domain.ErrorClass, msg string) {
	run.state = state
	run.errClass = class
	run.errMsg = msg
	o.record(ctx, ex, run, "", state)

	switch state {
	case domain.StateFailed:
		o.logger.Warnf(ctx, "Failed %s [%s]: %s", run.cand.Resource.ARN, class, msg)
	case domain.StateSkipped:
		o.logger.Infof(ctx, "Skipped %s: already absent", run.cand.Resource.ARN)
	default:
		o.logger.Infof(ctx, "Deleted %s", run.cand.Resource.ARN)
	}
}

// record appends one attempt-transition audit record to the in-memory
// accumulator and streams it to the store. Store failures are logged and
// swallowed: audit I/O never blocks deletion progress.
func (o *Orchestrator) record(ctx context.Context, ex *execution, run *candidateRun, stage domain.Stage, outcome domain.CandidateState) {
	rec := domain.AuditRecord{
		RecordID:       "rec_" + uuid.NewString(),
		OperationID:    ex.op.OperationID,
		SnapshotID:     ex.op.BaselineSnapshot,
		CandidateID:    run.cand.ID,
		ResourceARN:    run.cand.Resource.ARN,
		ResourceID:     run.cand.Resource.Name,
		ResourceType:   run.cand.Resource.Type,
		Region:         run.cand.Resource.Region,
		Tier:           run.cand.Tier,
		Synthetic:      run.cand.Synthetic,
		AttemptNumber:  run.attempts,
		Stage:          stage,
		Outcome:        outcome,
		ErrorClass:     run.errClass,
		ErrorMessage:   run.errMsg,
		CancelledAfter: run.cancelledAfter,
		Timestamp:      o.now().UTC(),
	}
	if outcome == domain.StateSkipped {
		rec.ErrorClass = domain.ErrClassNotFound
	}

	ex.mu.Lock()
	ex.records = append(ex.records, rec)
	ex.mu.Unlock()

	if o.store != nil {
		if err := o.store.Append(context.WithoutCancel(ctx), rec); err != nil {
			o.logger.Warnf(ctx, "audit append failed for %s: %v", rec.ResourceARN, err)
		}
	}
}

func (o *Orchestrator) finishOperation(ex *execution) {
	for _, run := range ex.order {
		switch run.state {
		case domain.StateSucceeded:
			ex.op.SucceededCount++
		case domain.StateSkipped:
			ex.op.SkippedCount++
		case domain.StateFailed:
			ex.op.FailedCount++
		}
	}

	switch {
	case ex.cancelled:
		ex.op.Status = domain.OpStatusCancelled
	case ex.op.FailedCount == 0:
		ex.op.Status = domain.OpStatusCompleted
	case ex.op.SucceededCount > 0 || ex.op.SkippedCount > 0:
		ex.op.Status = domain.OpStatusPartial
	default:
		ex.op.Status = domain.OpStatusFailed
	}
	ex.op.CompletedAt = o.now().UTC()
}

func (o *Orchestrator) report(plan *domain.RestorePlan, ex *execution) *domain.RestoreReport {
	report := &domain.RestoreReport{
		Operation: *ex.op,
		Protected: len(plan.Blocked),
		Blocked:   plan.Blocked,
	}
	for _, run := range ex.order {
		if !run.cand.Synthetic {
			report.Planned++
		}
		switch run.state {
		case domain.StateSucceeded:
			report.Succeeded++
		case domain.StateSkipped:
			report.Skipped++
		case domain.StateFailed:
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, domain.CandidateOutcome{
			CandidateID:    run.cand.ID,
			ResourceARN:    run.cand.Resource.ARN,
			ResourceType:   run.cand.Resource.Type,
			Region:         run.cand.Resource.Region,
			Tier:           run.cand.Tier,
			Synthetic:      run.cand.Synthetic,
			State:          run.state,
			Attempts:       run.attempts,
			ErrorClass:     run.errClass,
			ErrorMessage:   run.errMsg,
			CancelledAfter: run.cancelledAfter,
		})
	}
	return report
}
