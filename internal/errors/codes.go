package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodeTimeout          Code = "TIMEOUT_ERROR"

	// Snapshot and planning
	CodeSnapshotNotFound    Code = "SNAPSHOT_NOT_FOUND"
	CodeSnapshotParseError  Code = "SNAPSHOT_PARSE_ERROR"
	CodeSnapshotInvalid     Code = "SNAPSHOT_INVALID"
	CodeAccountMismatch     Code = "ACCOUNT_MISMATCH"
	CodeUnknownResourceType Code = "UNKNOWN_RESOURCE_TYPE"
	CodeTopologyError       Code = "TOPOLOGY_ERROR"
	CodePlanInvalid         Code = "PLAN_INVALID"

	// Execution
	CodeConfirmationMissing Code = "CONFIRMATION_MISSING"
	CodeDeletionFailed      Code = "DELETION_FAILED"
	CodePlatformAPIError    Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError   Code = "PLATFORM_AUTH_ERROR"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"

	// Audit
	CodeAuditWriteError Code = "AUDIT_WRITE_ERROR"
	CodeAuditReadError  Code = "AUDIT_READ_ERROR"
)

func (c Code) String() string {
	return string(c)
}
