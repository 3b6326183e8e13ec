package domain

import "time"

type OperationMode string

const (
	ModeDryRun  OperationMode = "dry-run"
	ModeExecute OperationMode = "execute"
)

type OperationStatus string

const (
	OpStatusPlanned   OperationStatus = "planned"
	OpStatusCompleted OperationStatus = "completed"
	OpStatusPartial   OperationStatus = "partial"
	OpStatusFailed    OperationStatus = "failed"
	OpStatusCancelled OperationStatus = "cancelled"
)

// Operation summarizes one restore run for the audit trail and the report.
type Operation struct {
	OperationID      string          `yaml:"operation_id" json:"operation_id"`
	BaselineSnapshot string          `yaml:"baseline_snapshot" json:"baseline_snapshot"`
	CurrentSnapshot  string          `yaml:"current_snapshot" json:"current_snapshot"`
	AccountID        string          `yaml:"account_id" json:"account_id"`
	Mode             OperationMode   `yaml:"mode" json:"mode"`
	Status           OperationStatus `yaml:"status" json:"status"`
	TotalResources   int             `yaml:"total_resources" json:"total_resources"`
	SucceededCount   int             `yaml:"succeeded_count" json:"succeeded_count"`
	FailedCount      int             `yaml:"failed_count" json:"failed_count"`
	SkippedCount     int             `yaml:"skipped_count" json:"skipped_count"`
	ProtectedCount   int             `yaml:"protected_count" json:"protected_count"`
	StartedAt        time.Time       `yaml:"started_at" json:"started_at"`
	CompletedAt      time.Time       `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// DurationSeconds is derived, kept for the audit document shape.
func (o Operation) DurationSeconds() float64 {
	if o.CompletedAt.IsZero() {
		return 0
	}
	return o.CompletedAt.Sub(o.StartedAt).Seconds()
}
