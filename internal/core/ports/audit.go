package ports

import (
	"context"
	"time"

	"github.com/tayodev/snapback/internal/core/domain"
)

// OperationLog is a persisted operation with all its records, as read back
// from the audit store.
type OperationLog struct {
	Operation domain.Operation     `yaml:"operation" json:"operation"`
	Records   []domain.AuditRecord `yaml:"records" json:"records"`
}

// AuditStore accepts append-only audit records. No update or delete
// operations exist; read-back is sequential for replay and testing.
//
//go:generate mockery --name=AuditStore --output=./mocks --outpkg=mocks --case underscore
type AuditStore interface {
	// Append streams one attempt-transition record. Failures here must never
	// block deletion progress; callers log and continue.
	Append(ctx context.Context, rec domain.AuditRecord) error

	// WriteOperation persists the final operation document with every record
	// accumulated in memory during the run.
	WriteOperation(ctx context.Context, op domain.Operation, recs []domain.AuditRecord) error

	ReadOperation(ctx context.Context, operationID string) (*OperationLog, error)
	Query(ctx context.Context, since, until time.Time) ([]OperationLog, error)
}
