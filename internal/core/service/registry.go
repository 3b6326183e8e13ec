package service

import (
	"fmt"
	"sync"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

// AdapterRegistry holds the per-type deletion adapters. Selection is purely by
// resource type; a type without an adapter fails the whole plan at resolution
// time, never at execution. External code may register additional adapters
// under the same contract.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[domain.ResourceType]ports.ServiceAdapter
}

func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[domain.ResourceType]ports.ServiceAdapter),
	}
}

func (r *AdapterRegistry) Register(adapter ports.ServiceAdapter) error {
	if adapter == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil adapter")
	}
	rt := adapter.Type()
	if rt == "" {
		return errors.New(errors.CodeInternal, "adapter resource type cannot be empty")
	}
	if _, known := domain.TierFor(rt); !known {
		return errors.New(errors.CodeInternal, fmt.Sprintf("adapter type '%s' is not in the tier table", rt))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[rt]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("adapter for type '%s' already registered", rt))
	}
	r.adapters[rt] = adapter
	return nil
}

func (r *AdapterRegistry) Get(rt domain.ResourceType) (ports.ServiceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[rt]
	if !exists {
		return nil, errors.NewUserFacing(errors.CodeUnknownResourceType,
			fmt.Sprintf("no deletion adapter registered for resource type '%s'", rt),
			"Exclude the type with --types or register an adapter for it.")
	}
	return adapter, nil
}

func (r *AdapterRegistry) Types() []domain.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.ResourceType, 0, len(r.adapters))
	for rt := range r.adapters {
		types = append(types, rt)
	}
	return types
}
