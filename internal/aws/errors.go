package aws

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// IsConditionalCheckFailed reports whether err is a DynamoDB conditional-write
// failure, matching both the modeled exception and the service error code,
// which is what surfaces through some SDK paths.
func IsConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	return hasErrorCode(err, "ConditionalCheckFailedException")
}

// IsTransactionCanceled reports whether err is a cancelled TransactWriteItems
// call, typically because one of its conditions failed.
func IsTransactionCanceled(err error) bool {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return true
	}
	return hasErrorCode(err, "TransactionCanceledException")
}

func hasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
