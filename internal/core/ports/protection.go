package ports

import "github.com/tayodev/snapback/internal/core/domain"

// ProtectionChecker evaluates the ordered protection rules for one resource.
type ProtectionChecker interface {
	Check(res domain.Resource) domain.ProtectionState
}
