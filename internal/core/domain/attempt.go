package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeletionAttempt is one try to advance a candidate. Created and mutated only
// by the orchestrator; a candidate has 1..N attempts.
type DeletionAttempt struct {
	CandidateID    CandidateID    `json:"candidate_id"`
	AttemptNumber  int            `json:"attempt_number"`
	Stage          Stage          `json:"stage"`
	Outcome        CandidateState `json:"outcome"`
	ErrorClass     ErrorClass     `json:"error_class,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	CancelledAfter bool           `json:"cancelled_after,omitempty"`
}

// AuditRecord is one persisted attempt transition. Append-only, never mutated,
// ordered by (CandidateID, AttemptNumber). The set of records for an operation
// is sufficient to reconstruct final candidate states without recontacting the
// provider.
type AuditRecord struct {
	RecordID    string `yaml:"record_id" json:"record_id"`
	OperationID string `yaml:"operation_id" json:"operation_id"`
	SnapshotID  string `yaml:"snapshot_id" json:"snapshot_id"`

	CandidateID  CandidateID  `yaml:"candidate_id" json:"candidate_id"`
	ResourceARN  string       `yaml:"resource_arn" json:"resource_arn"`
	ResourceID   string       `yaml:"resource_id" json:"resource_id"`
	ResourceType ResourceType `yaml:"resource_type" json:"resource_type"`
	Region       string       `yaml:"region" json:"region"`
	Tier         Tier         `yaml:"deletion_tier" json:"deletion_tier"`
	Synthetic    bool         `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`

	AttemptNumber    int            `yaml:"attempt_number" json:"attempt_number"`
	Stage            Stage          `yaml:"stage,omitempty" json:"stage,omitempty"`
	Outcome          CandidateState `yaml:"outcome" json:"outcome"`
	ErrorClass       ErrorClass     `yaml:"error_class,omitempty" json:"error_class,omitempty"`
	ErrorMessage     string         `yaml:"error_message,omitempty" json:"error_message,omitempty"`
	ProtectionReason string         `yaml:"protection_reason,omitempty" json:"protection_reason,omitempty"`
	CancelledAfter   bool           `yaml:"cancelled_after,omitempty" json:"cancelled_after,omitempty"`
	Timestamp        time.Time      `yaml:"timestamp" json:"timestamp"`
}

// Validate enforces record invariants carried over from the audit contract:
// failures carry an error class, skips carry either a protection reason or an
// idempotent NotFound classification, successes carry neither.
func (r AuditRecord) Validate() error {
	switch r.Outcome {
	case StateFailed:
		if r.ErrorClass == ErrClassNone {
			return fmt.Errorf("failed record %s requires an error class", r.RecordID)
		}
	case StateSkipped:
		if r.ProtectionReason == "" && r.ErrorClass != ErrClassNotFound {
			return fmt.Errorf("skipped record %s requires a protection reason or NotFound class", r.RecordID)
		}
	case StateSucceeded:
		if r.ProtectionReason != "" {
			return fmt.Errorf("succeeded record %s cannot carry a protection reason", r.RecordID)
		}
	}
	if !strings.HasPrefix(r.ResourceARN, "arn:") {
		return fmt.Errorf("record %s has malformed ARN %q", r.RecordID, r.ResourceARN)
	}
	return nil
}
