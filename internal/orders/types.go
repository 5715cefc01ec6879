package orders

import "time"

// Order statuses
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Payment statuses on an order
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusPaid || s == StatusCancelled
}

// LineItem is a snapshot of a purchased book at order time.
type LineItem struct {
	BookID   string  `dynamodbav:"book_id" json:"bookId"`
	Title    string  `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Quantity int     `dynamodbav:"quantity" json:"quantity"`
	Price    float64 `dynamodbav:"price" json:"price"`
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID       string     `dynamodbav:"order_id" json:"orderId"` // PK
	UserID        string     `dynamodbav:"user_id" json:"userId"`
	Name          string     `dynamodbav:"name" json:"name"`
	Email         string     `dynamodbav:"email" json:"email"` // GSI hash key
	Phone         string     `dynamodbav:"phone" json:"phone"`
	Address       string     `dynamodbav:"address" json:"address"`
	Items         []LineItem `dynamodbav:"items" json:"items"`
	TotalAmount   float64    `dynamodbav:"total_amount" json:"totalAmount"`
	Status        string     `dynamodbav:"status" json:"status"`                           // pending | paid | cancelled
	PaymentStatus string     `dynamodbav:"payment_status" json:"paymentStatus"`            // unpaid | paid
	TransactionID string     `dynamodbav:"transaction_id,omitempty" json:"transactionId,omitempty"` // set once paid
	CreatedAt     time.Time  `dynamodbav:"created_at" json:"createdAt"`
	CancelledAt   *time.Time `dynamodbav:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
}
