package shared

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"github.com/tayodev/snapback/internal/core/domain"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorClass
	}{
		{"nil", nil, domain.ErrClassNone},
		{"context canceled", context.Canceled, domain.ErrClassUnknown},
		{"deadline exceeded", context.DeadlineExceeded, domain.ErrClassUnknown},

		{"iam no such entity", apiError("NoSuchEntity"), domain.ErrClassNotFound},
		{"s3 no such bucket", apiError("NoSuchBucket"), domain.ErrClassNotFound},
		{"ec2 instance not found", apiError("InvalidInstanceID.NotFound"), domain.ErrClassNotFound},
		{"sqs queue gone", apiError("AWS.SimpleQueueService.NonExistentQueue"), domain.ErrClassNotFound},

		{"access denied", apiError("AccessDenied"), domain.ErrClassPermission},
		{"unauthorized operation", apiError("UnauthorizedOperation"), domain.ErrClassPermission},
		{"expired token", apiError("ExpiredToken"), domain.ErrClassPermission},

		{"throttling", apiError("Throttling"), domain.ErrClassThrottle},
		{"request limit", apiError("RequestLimitExceeded"), domain.ErrClassThrottle},
		{"s3 slow down", apiError("SlowDown"), domain.ErrClassThrottle},

		{"ec2 dependency violation", apiError("DependencyViolation"), domain.ErrClassDependency},
		{"iam delete conflict", apiError("DeleteConflict"), domain.ErrClassDependency},
		{"bucket not empty", apiError("BucketNotEmpty"), domain.ErrClassDependency},

		{"incorrect state", apiError("IncorrectState"), domain.ErrClassState},
		{"rds instance state", apiError("InvalidDBInstanceState"), domain.ErrClassState},
		{"kms invalid state", apiError("KMSInvalidStateException"), domain.ErrClassState},
		{"concurrent modification", apiError("ConcurrentModificationException"), domain.ErrClassState},

		{"unlisted code", apiError("SomethingNovel"), domain.ErrClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyWrappedAPIError(t *testing.T) {
	err := fmt.Errorf("deleting security group: %w", apiError("DependencyViolation"))
	assert.Equal(t, domain.ErrClassDependency, Classify(err))
}

func TestClassifyDependencyBlockedError(t *testing.T) {
	res := domain.Resource{ARN: "arn:aws:ec2:us-east-1:1:network-interface/eni-1", Type: domain.TypeEC2NetworkInterface}
	err := &domain.DependencyBlockedError{Blocker: &res, Err: fmt.Errorf("attached")}
	assert.Equal(t, domain.ErrClassDependency, Classify(err))
}

func TestClassifyMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want domain.ErrorClass
	}{
		{"not found phrase", "resource not found", domain.ErrClassNotFound},
		{"does not exist phrase", "queue does not exist", domain.ErrClassNotFound},
		{"access denied phrase", "AccessDenied: no permission", domain.ErrClassPermission},
		{"throttle phrase", "Throttling: rate exceeded", domain.ErrClassThrottle},
		{"in use phrase", "volume is currently in use", domain.ErrClassDependency},
		{"opaque", "connection reset by peer", domain.ErrClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(fmt.Errorf("%s", tt.msg)))
		})
	}
}
