package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

func TestPlanFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "restore.json")
	plan := &domain.RestorePlan{
		OperationID:      "op_abc",
		BaselineSnapshot: "base",
		CurrentSnapshot:  "curr",
		AccountID:        "111122223333",
		CreatedAt:        time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Candidates: []*domain.DeletionCandidate{
			{
				ID:       "cand-0001",
				Resource: table(1),
				Tier:     domain.TierData,
			},
		},
	}

	require.NoError(t, WritePlanFile(path, plan))

	got, err := ReadPlanFile(path)
	require.NoError(t, err)
	assert.Equal(t, plan.OperationID, got.OperationID)
	assert.Equal(t, plan.BaselineSnapshot, got.BaselineSnapshot)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, plan.Candidates[0].Resource.ARN, got.Candidates[0].Resource.ARN)
	assert.Equal(t, domain.TierData, got.Candidates[0].Tier)
}

func TestReadPlanFileMissing(t *testing.T) {
	_, err := ReadPlanFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePlanInvalid))
}

func TestReadPlanFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadPlanFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePlanInvalid))
}

func TestReadPlanFileMissingIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"candidates":[]}`), 0o644))

	_, err := ReadPlanFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePlanInvalid))
}
