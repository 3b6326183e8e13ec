package shared

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/tayodev/snapback/internal/core/domain"
)

// Error-code tables for the shared classifier. Codes come from the service
// APIs the adapters call; anything unlisted falls through to Unknown so the
// orchestrator fails it rather than retrying blindly.
var (
	notFoundCodes = map[string]struct{}{
		"ResourceNotFoundException":        {},
		"NotFoundException":                {},
		"NoSuchEntity":                     {},
		"NoSuchBucket":                     {},
		"NoSuchKey":                        {},
		"InvalidInstanceID.NotFound":       {},
		"InvalidGroup.NotFound":            {},
		"InvalidVolume.NotFound":           {},
		"InvalidVpcID.NotFound":            {},
		"InvalidSubnetID.NotFound":         {},
		"InvalidInternetGatewayID.NotFound": {},
		"InvalidRouteTableID.NotFound":     {},
		"InvalidNetworkInterfaceID.NotFound": {},
		"InvalidKeyPair.NotFound":          {},
		"NatGatewayNotFound":               {},
		"InvalidAllocationID.NotFound":     {},
		"InvalidLaunchTemplateId.NotFound": {},
		"InvalidSnapshot.NotFound":         {},
		"InvalidVpcEndpointId.NotFound":    {},
		"DBInstanceNotFound":               {},
		"DBInstanceNotFoundFault":          {},
		"DBClusterNotFoundFault":           {},
		"QueueDoesNotExist":                {},
		"AWS.SimpleQueueService.NonExistentQueue": {},
		"FileSystemNotFound":               {},
		"MountTargetNotFound":              {},
		"CacheClusterNotFound":             {},
		"CacheClusterNotFoundFault":        {},
	}

	permissionCodes = map[string]struct{}{
		"AccessDenied":          {},
		"AccessDeniedException": {},
		"UnauthorizedOperation": {},
		"AuthFailure":           {},
		"InvalidClientTokenId":  {},
		"ExpiredToken":          {},
	}

	throttleCodes = map[string]struct{}{
		"Throttling":                {},
		"ThrottlingException":       {},
		"RequestLimitExceeded":      {},
		"TooManyRequestsException":  {},
		"RequestThrottled":          {},
		"RequestThrottledException": {},
		"SlowDown":                  {},
	}

	dependencyCodes = map[string]struct{}{
		"DependencyViolation": {},
		"DeleteConflict":      {},
		"BucketNotEmpty":      {},
		"ResourceInUse":       {},
		"InvalidAttachment.NotFound": {},
	}

	stateCodes = map[string]struct{}{
		"IncorrectState":              {},
		"IncorrectInstanceState":      {},
		"InvalidDBInstanceState":      {},
		"InvalidDBClusterStateFault":  {},
		"InvalidDBInstanceStateFault": {},
		"KMSInvalidStateException":    {},
		"ResourceInUseException":      {},
		"InvalidCacheClusterState":    {},
		"InvalidCacheClusterStateFault": {},
		"IncorrectFileSystemLifeCycleState": {},
		"ConcurrentModificationException":   {},
		"OperationAborted":            {},
	}
)

// Classify maps a raw AWS error into the shared error taxonomy. Adapters with
// service-specific quirks wrap this and intercept their own codes first.
func Classify(err error) domain.ErrorClass {
	if err == nil {
		return domain.ErrClassNone
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return domain.ErrClassUnknown
	}

	var blocked *domain.DependencyBlockedError
	if stderrs.As(err, &blocked) {
		return domain.ErrClassDependency
	}

	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case has(notFoundCodes, code):
			return domain.ErrClassNotFound
		case has(permissionCodes, code):
			return domain.ErrClassPermission
		case has(throttleCodes, code):
			return domain.ErrClassThrottle
		case has(dependencyCodes, code):
			return domain.ErrClassDependency
		case has(stateCodes, code):
			return domain.ErrClassState
		}
	}

	// Some SDK paths surface plain errors; fall back to message matching the
	// way the provider writes these phrases.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NotFound") || strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found"):
		return domain.ErrClassNotFound
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedOperation"):
		return domain.ErrClassPermission
	case strings.Contains(msg, "Throttl") || strings.Contains(msg, "RequestLimitExceeded"):
		return domain.ErrClassThrottle
	case strings.Contains(msg, "DependencyViolation") || strings.Contains(msg, "in use"):
		return domain.ErrClassDependency
	}

	return domain.ErrClassUnknown
}

func has(set map[string]struct{}, code string) bool {
	_, ok := set[code]
	return ok
}
