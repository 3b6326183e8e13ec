package ec2

import (
	stderrs "errors"
	"strings"

	"github.com/aws/smithy-go"
)

func containsCode(err error, code string) bool {
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return strings.Contains(err.Error(), code)
}
