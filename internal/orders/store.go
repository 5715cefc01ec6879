package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mahib2121/BoiGhor-Server/internal/aws"
)

// EmailIndex is the GSI over (email, created_at) used for per-customer listings.
const EmailIndex = "email-index"

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrOrderPaid indicates a cancel was attempted on a paid order.
	ErrOrderPaid = errors.New("paid orders cannot be cancelled")
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new order. The caller supplies OrderID; status fields are
// forced to the initial lifecycle state here so a request body can never start
// an order as paid.
func (s *Store) Create(ctx context.Context, order Order) (*Order, error) {
	order.Status = StatusPending
	order.PaymentStatus = PaymentUnpaid
	order.TransactionID = ""
	order.CancelledAt = nil
	order.CreatedAt = s.nowFunc().UTC()

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put order: %w", err)
	}
	return &order, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List returns every order (admin listing). Pagination is left to callers that
// need it; the storefront dataset is small.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return unmarshalOrders(out.Items)
}

// ListByEmail returns the customer's orders, newest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]Order, error) {
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
		return nil, fmt.Errorf("query orders by email: %w", err)
	}
	return unmarshalOrders(out.Items)
}

// UpdateStatus sets the order status without transition validation. The value
// itself is validated against the known status set before any write; the
// dedicated Cancel path carries the real guard rails.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid order status %q", status)
	}
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: status},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// Cancel moves an unpaid order to cancelled and stamps cancelled_at. The write
// is conditional on payment_status so a reconciliation racing this call cannot
// cancel an order that just became paid.
func (s *Store) Cancel(ctx context.Context, orderID string) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :cancelled, cancelled_at = :ca"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": &types.AttributeValueMemberS{Value: StatusCancelled},
			":ca":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":paid":      &types.AttributeValueMemberS{Value: PaymentPaid},
		},
		ConditionExpression: awsString("attribute_exists(order_id) AND payment_status <> :paid"),
	})
	if err != nil {
		if !aws.IsConditionalCheckFailed(err) {
			return fmt.Errorf("cancel order: %w", err)
		}
		// condition failed: absent order or already-paid order; a read decides which
		o, getErr := s.Get(ctx, orderID)
		if getErr != nil {
			return getErr
		}
		if o == nil {
			return ErrNotFound
		}
		return ErrOrderPaid
	}
	return nil
}

// MarkPaidUpdate builds the transactional Update item that flips an order to
// paid and records the external payment intent. Issued by the payments store
// inside its TransactWriteItems call. The condition keeps a cancelled (or
// vanished) order from becoming paid when a reconciliation lands late.
func (s *Store) MarkPaidUpdate(orderID, transactionID string) types.TransactWriteItem {
	now := s.nowFunc().UTC()
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: &s.tableName,
			Key: map[string]types.AttributeValue{
				"order_id": &types.AttributeValueMemberS{Value: orderID},
			},
			UpdateExpression:         awsString("SET payment_status = :paid, transaction_id = :tid, updated_at = :ua"),
			ConditionExpression:      awsString("attribute_exists(order_id) AND #s <> :cancelled"),
			ExpressionAttributeNames: map[string]string{"#s": "status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":paid":      &types.AttributeValueMemberS{Value: PaymentPaid},
				":tid":       &types.AttributeValueMemberS{Value: transactionID},
				":ua":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
				":cancelled": &types.AttributeValueMemberS{Value: StatusCancelled},
			},
		},
	}
}

func unmarshalOrders(items []map[string]types.AttributeValue) ([]Order, error) {
	list := make([]Order, 0, len(items))
	for _, item := range items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		list = append(list, o)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
