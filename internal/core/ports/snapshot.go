package ports

import (
	"context"

	"github.com/tayodev/snapback/internal/core/domain"
)

// SnapshotProvider supplies immutable snapshots. Capture/collection is a
// separate subsystem; the restoration core only reads.
//
//go:generate mockery --name=SnapshotProvider --output=./mocks --outpkg=mocks --case underscore
type SnapshotProvider interface {
	Load(ctx context.Context, name string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]string, error)
}

// AccountVerifier checks that the caller's credentials belong to the account a
// snapshot was captured from, before any plan is built.
type AccountVerifier interface {
	CallerAccountID(ctx context.Context) (string, error)
}
