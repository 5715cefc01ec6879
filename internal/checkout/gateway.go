package checkout

import (
	"context"
	"math"
)

// PaymentStatusPaid is the gateway's payment status for a fully paid session.
const PaymentStatusPaid = "paid"

// MetadataOrderID is the metadata key tagging a session with our order.
// Sessions without it were not created by this system's checkout flow.
const MetadataOrderID = "orderId"

// Session is the gateway-hosted checkout resource.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	CustomerEmail   string
	AmountTotal     int64 // minor units
	Currency        string
	Metadata        map[string]string
}

// CreateSessionInput describes a hosted session request.
type CreateSessionInput struct {
	AmountMinorUnits int64
	Currency         string
	CustomerEmail    string
	DisplayName      string
	Metadata         map[string]string
}

// Gateway is the external checkout/payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}

// MinorUnits converts a major-unit cost to the gateway's minor-unit amount,
// rounding half up. This must match the gateway's convention exactly:
// 19.999 -> 2000, 5 -> 500.
func MinorUnits(cost float64) int64 {
	return int64(math.Round(cost * 100))
}
