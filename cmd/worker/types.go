package main

// PaidEvent is the payload sent from API -> SQS -> Worker after a payment
// has been reconciled.
type PaidEvent struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Email     string `json:"email,omitempty"`
}
