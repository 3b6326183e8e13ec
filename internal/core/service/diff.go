package service

import (
	"github.com/tayodev/snapback/internal/core/domain"
)

// SelectCandidates computes the deletion candidate set: resources whose ARN is
// present in the current snapshot but absent from the baseline. Pure set
// difference, no side effects. Resources present in both snapshots are excluded
// even when their config hash differs; drift reversal is out of scope.
func SelectCandidates(current, baseline *domain.Snapshot) []domain.Resource {
	baselineARNs := baseline.ARNSet()
	var added []domain.Resource
	for _, res := range current.Resources {
		if _, existed := baselineARNs[res.ARN]; !existed {
			added = append(added, res)
		}
	}
	return added
}

// FilterResources restricts a candidate set by resource types and regions.
// Empty filters pass everything through.
func FilterResources(resources []domain.Resource, types []domain.ResourceType, regions []string) []domain.Resource {
	if len(types) == 0 && len(regions) == 0 {
		return resources
	}

	typeSet := make(map[domain.ResourceType]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}
	regionSet := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		regionSet[r] = struct{}{}
	}

	var out []domain.Resource
	for _, res := range resources {
		if len(typeSet) > 0 {
			if _, ok := typeSet[res.Type]; !ok {
				continue
			}
		}
		if len(regionSet) > 0 {
			if _, ok := regionSet[res.Region]; !ok {
				continue
			}
		}
		out = append(out, res)
	}
	return out
}
