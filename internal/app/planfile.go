package app

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WritePlanFile persists a preview's plan artifact so a later execute can
// re-validate it against fresh state before acting.
func WritePlanFile(path string, plan *domain.RestorePlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode restore plan")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("failed to create plan directory %s", dir))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("failed to write plan file %s", path))
	}
	return nil
}

// ReadPlanFile loads a persisted plan artifact.
func ReadPlanFile(path string) (*domain.RestorePlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewUserFacing(errors.CodePlanInvalid,
				fmt.Sprintf("plan file %s does not exist", path),
				"Run preview with --plan-out to produce one.")
		}
		return nil, errors.Wrap(err, errors.CodePlanInvalid, fmt.Sprintf("failed to read plan file %s", path))
	}
	var plan domain.RestorePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, errors.Wrap(err, errors.CodePlanInvalid, fmt.Sprintf("plan file %s is not a valid plan", path))
	}
	if plan.OperationID == "" || plan.BaselineSnapshot == "" {
		return nil, errors.New(errors.CodePlanInvalid,
			fmt.Sprintf("plan file %s is missing its operation or baseline identity", path))
	}
	return &plan, nil
}
