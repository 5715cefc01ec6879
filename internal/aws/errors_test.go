package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

func TestIsConditionalCheckFailed(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"modeled exception", &types.ConditionalCheckFailedException{}, true},
		{"error code only", &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"}, true},
		{"wrapped", fmt.Errorf("put item: %w", &types.ConditionalCheckFailedException{}), true},
		{"other api error", &smithy.GenericAPIError{Code: "ThrottlingException"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConditionalCheckFailed(tc.err); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsTransactionCanceled(t *testing.T) {
	if !IsTransactionCanceled(&types.TransactionCanceledException{}) {
		t.Fatalf("modeled exception not matched")
	}
	if !IsTransactionCanceled(&smithy.GenericAPIError{Code: "TransactionCanceledException"}) {
		t.Fatalf("error code not matched")
	}
	if IsTransactionCanceled(&types.ConditionalCheckFailedException{}) {
		t.Fatalf("wrong exception matched")
	}
}
