package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mahib2121/BoiGhor-Server/internal/aws"
	"github.com/mahib2121/BoiGhor-Server/internal/orders"
)

// EmailIndex is the GSI over (email, created_at) used for payment history.
const EmailIndex = "email-index"

var (
	// ErrDuplicatePayment indicates the payment intent was already recorded.
	ErrDuplicatePayment = errors.New("payment already recorded")
	// ErrOrderNotPayable indicates the order is cancelled or missing, so the
	// payment cannot be applied to it.
	ErrOrderNotPayable = errors.New("order cannot be marked paid")
)

// Store encapsulates operations on the payments table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	orders    *orders.Store
	nowFunc   func() time.Time
}

// NewStore returns a payments Store. The orders store is injected because
// recording a payment and marking its order paid happen in one transaction.
func NewStore(client aws.DynamoDBAPI, tableName string, ordersStore *orders.Store) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		orders:    ordersStore,
		nowFunc:   time.Now,
	}
}

// Record atomically inserts the payment and flips its order to paid using a
// single TransactWriteItems call. The Put is conditioned on
// attribute_not_exists(payment_id), so of two racing reconciliations exactly
// one commits; the loser gets ErrDuplicatePayment. The order update is
// conditioned on the order existing and not being cancelled, which yields
// ErrOrderNotPayable instead.
func (s *Store) Record(ctx context.Context, p Payment) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.nowFunc().UTC()
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}

	input := &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                item,
					ConditionExpression: awsString("attribute_not_exists(payment_id)"),
				},
			},
			s.orders.MarkPaidUpdate(p.OrderID, p.PaymentID),
		},
	}

	_, err = s.client.TransactWriteItems(ctx, input)
	if err != nil {
		if !aws.IsTransactionCanceled(err) {
			return fmt.Errorf("transact write: %w", err)
		}
		// two conditions can cancel this transaction; a read tells which one
		existing, getErr := s.GetByIntent(ctx, p.PaymentID)
		if getErr != nil {
			return getErr
		}
		if existing != nil {
			return ErrDuplicatePayment
		}
		return ErrOrderNotPayable
	}
	return nil
}

// GetByIntent fetches a payment by the external payment-intent id.
// Returns (nil, nil) if not found.
func (s *Store) GetByIntent(ctx context.Context, paymentID string) (*Payment, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"payment_id": &types.AttributeValueMemberS{Value: paymentID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Payment
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	return &p, nil
}

// ListByEmail returns the payer's payments, newest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(EmailIndex),
		KeyConditionExpression: awsString("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		ScanIndexForward: awsBool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query payments by email: %w", err)
	}
	list := make([]Payment, 0, len(out.Items))
	for _, item := range out.Items {
		var p Payment
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, fmt.Errorf("unmarshal payment: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
