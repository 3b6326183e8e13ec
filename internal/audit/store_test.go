package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mkRecord(opID string, attempt int, outcome domain.CandidateState) domain.AuditRecord {
	rec := domain.AuditRecord{
		RecordID:      "rec_test",
		OperationID:   opID,
		SnapshotID:    "baseline",
		CandidateID:   "c1",
		ResourceARN:   "arn:aws:s3:::data-bucket",
		ResourceID:    "data-bucket",
		ResourceType:  domain.TypeS3Bucket,
		Region:        "us-east-1",
		Tier:          domain.TierData,
		AttemptNumber: attempt,
		Stage:         domain.StageDelete,
		Outcome:       outcome,
		Timestamp:     time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	if outcome == domain.StateFailed {
		rec.ErrorClass = domain.ErrClassThrottle
		rec.ErrorMessage = "rate exceeded"
	}
	if outcome == domain.StateSkipped {
		rec.ErrorClass = domain.ErrClassNotFound
	}
	return rec
}

func mkOperation(opID string, started time.Time) domain.Operation {
	return domain.Operation{
		OperationID:      opID,
		BaselineSnapshot: "baseline",
		CurrentSnapshot:  "current",
		AccountID:        "111122223333",
		Mode:             domain.ModeExecute,
		Status:           domain.OpStatusCompleted,
		TotalResources:   1,
		SucceededCount:   1,
		StartedAt:        started,
		CompletedAt:      started.Add(time.Minute),
	}
}

func TestFileStoreRequiresBaseDir(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}

func TestFileStoreAppendAndReadStream(t *testing.T) {
	clock := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	store, err := NewFileStore(t.TempDir(), WithClock(fixedClock(clock)))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, mkRecord("op_1", 1, domain.StateDeleting)))
	require.NoError(t, store.Append(ctx, mkRecord("op_1", 2, domain.StateSucceeded)))

	// No final document yet: the log is rebuilt from the stream.
	log, err := store.ReadOperation(ctx, "op_1")
	require.NoError(t, err)
	require.Len(t, log.Records, 2)
	assert.Equal(t, 1, log.Records[0].AttemptNumber)
	assert.Equal(t, 2, log.Records[1].AttemptNumber)
	assert.Equal(t, domain.OpStatusPlanned, log.Operation.Status)
	assert.Equal(t, "baseline", log.Operation.BaselineSnapshot)
}

func TestFileStoreAppendRejectsInvalidRecord(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	bad := mkRecord("op_1", 1, domain.StateFailed)
	bad.ErrorClass = domain.ErrClassNone

	require.Error(t, store.Append(context.Background(), bad))
}

func TestFileStoreWriteOperationSupersedesStream(t *testing.T) {
	clock := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	store, err := NewFileStore(t.TempDir(), WithClock(fixedClock(clock)))
	require.NoError(t, err)

	ctx := context.Background()
	recs := []domain.AuditRecord{
		mkRecord("op_2", 1, domain.StateDeleting),
		mkRecord("op_2", 2, domain.StateSucceeded),
	}
	for _, rec := range recs {
		require.NoError(t, store.Append(ctx, rec))
	}
	op := mkOperation("op_2", clock)
	require.NoError(t, store.WriteOperation(ctx, op, recs))

	log, err := store.ReadOperation(ctx, "op_2")
	require.NoError(t, err)
	assert.Equal(t, domain.OpStatusCompleted, log.Operation.Status)
	assert.Equal(t, op.OperationID, log.Operation.OperationID)
	assert.Equal(t, op.AccountID, log.Operation.AccountID)
	require.Len(t, log.Records, 2)
	assert.Equal(t, domain.StateSucceeded, log.Records[1].Outcome)
}

func TestFileStoreReadUnknownOperation(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadOperation(context.Background(), "op_missing")
	require.Error(t, err)
}

func TestFileStoreQueryWindow(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// Operations partitioned into different months.
	times := map[string]time.Time{
		"op_jan": time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		"op_feb": time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		"op_mar": time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	for id, at := range times {
		store, err := NewFileStore(dir, WithClock(fixedClock(at)))
		require.NoError(t, err)
		require.NoError(t, store.WriteOperation(ctx, mkOperation(id, at), nil))
	}

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	logs, err := store.Query(ctx,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, "op_jan", logs[0].Operation.OperationID)
	assert.Equal(t, "op_feb", logs[1].Operation.OperationID)
}

func TestFileStoreQueryEmptyDir(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	logs, err := store.Query(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, logs)
}
