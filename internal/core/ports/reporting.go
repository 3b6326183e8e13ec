package ports

import (
	"context"

	"github.com/tayodev/snapback/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, report *domain.RestoreReport) error
}
