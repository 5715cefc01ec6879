package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mahib2121/BoiGhor-Server/internal/payments"
)

var (
	// ErrMissingSession indicates no session reference was supplied.
	ErrMissingSession = errors.New("missing session reference")
	// ErrNotCompleted indicates the gateway does not report the session as paid.
	ErrNotCompleted = errors.New("payment not completed")
	// ErrInvalidMetadata indicates the session lacks our order reference or a
	// payment intent, i.e. it was not created by this checkout flow.
	ErrInvalidMetadata = errors.New("invalid payment metadata")
	// ErrOrderNotPayable indicates the session's order was cancelled or
	// deleted before the reconciliation landed; nothing was recorded.
	ErrOrderNotPayable = errors.New("order is no longer payable")
)

// PaymentLedger is the slice of the payments store the reconciler needs.
type PaymentLedger interface {
	GetByIntent(ctx context.Context, paymentID string) (*payments.Payment, error)
	Record(ctx context.Context, p payments.Payment) error
}

// EventPublisher emits an event after a payment is durably recorded.
// Optional; publishing is best-effort.
type EventPublisher interface {
	SendPaymentEvent(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Result is the outcome of a reconciliation.
type Result struct {
	PaymentIntentID  string
	AlreadyProcessed bool
}

// Reconciler turns a completed external checkout session into durable,
// idempotent local state: the order flips to paid and exactly one Payment
// record exists per payment intent, however many times it is invoked.
type Reconciler struct {
	gateway  Gateway
	ledger   PaymentLedger
	events   EventPublisher
	currency string
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewReconciler wires a reconciler. events may be nil. currency is used for
// session creation (e.g. "usd").
func NewReconciler(gw Gateway, ledger PaymentLedger, events EventPublisher, currency string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		gateway:  gw,
		ledger:   ledger,
		events:   events,
		currency: currency,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// BeginCheckout requests a hosted session for the order and returns the
// redirect URL.
func (r *Reconciler) BeginCheckout(ctx context.Context, cost float64, orderID, displayName, email string) (string, error) {
	sess, err := r.gateway.CreateSession(ctx, CreateSessionInput{
		AmountMinorUnits: MinorUnits(cost),
		Currency:         r.currency,
		CustomerEmail:    email,
		DisplayName:      displayName,
		Metadata:         map[string]string{MetadataOrderID: orderID},
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// Reconcile verifies the session with the gateway and applies the local state
// change at most once. Replays (client retry, webhook redelivery, a refreshed
// success page) return the same success with AlreadyProcessed set.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	sess, err := r.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve session: %w", err)
	}
	if sess.PaymentStatus != PaymentStatusPaid {
		return nil, ErrNotCompleted
	}

	orderID := sess.Metadata[MetadataOrderID]
	intentID := sess.PaymentIntentID
	if orderID == "" || intentID == "" {
		return nil, ErrInvalidMetadata
	}

	// fast path for replays; the conditional write below still closes the race
	existing, err := r.ledger.GetByIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("lookup payment: %w", err)
	}
	if existing != nil {
		return &Result{PaymentIntentID: intentID, AlreadyProcessed: true}, nil
	}

	payment := payments.Payment{
		PaymentID: intentID,
		OrderID:   orderID,
		Email:     sess.CustomerEmail,
		Amount:    float64(sess.AmountTotal) / 100,
		Currency:  sess.Currency,
		Status:    sess.PaymentStatus,
		CreatedAt: r.nowFunc().UTC(),
	}
	err = r.ledger.Record(ctx, payment)
	if errors.Is(err, payments.ErrDuplicatePayment) {
		// lost the race to a concurrent reconciliation
		return &Result{PaymentIntentID: intentID, AlreadyProcessed: true}, nil
	}
	if errors.Is(err, payments.ErrOrderNotPayable) {
		return nil, ErrOrderNotPayable
	}
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	r.publishPaid(ctx, payment)

	return &Result{PaymentIntentID: intentID}, nil
}

// publishPaid emits an order-paid event. Local state is already durable, so a
// failed enqueue is logged rather than failing the reconciliation.
func (r *Reconciler) publishPaid(ctx context.Context, p payments.Payment) {
	if r.events == nil {
		return
	}
	body, _ := json.Marshal(map[string]string{
		"order_id":   p.OrderID,
		"payment_id": p.PaymentID,
		"email":      p.Email,
	})
	attrs := map[string]string{
		"order_id":   p.OrderID,
		"payment_id": p.PaymentID,
	}
	if err := r.events.SendPaymentEvent(ctx, string(body), attrs); err != nil {
		r.logger.Warn("publish order-paid event failed", "order_id", p.OrderID, "err", err)
	}
}
