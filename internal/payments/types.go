package payments

import "time"

// Payment is the durable record of one reconciled checkout. The external
// payment-intent id is the partition key, so a given intent can exist at most
// once no matter how many reconciliations race for it.
type Payment struct {
	PaymentID string    `dynamodbav:"payment_id" json:"paymentId"` // PK, external intent id
	OrderID   string    `dynamodbav:"order_id" json:"orderId"`
	Email     string    `dynamodbav:"email" json:"email"` // GSI hash key
	Amount    float64   `dynamodbav:"amount" json:"amount"` // major currency units
	Currency  string    `dynamodbav:"currency" json:"currency"`
	Status    string    `dynamodbav:"status" json:"status"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
}
