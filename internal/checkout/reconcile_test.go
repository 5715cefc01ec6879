package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/mahib2121/BoiGhor-Server/internal/payments"
)

type fakeGateway struct {
	sessions   map[string]*Session
	lastCreate CreateSessionInput
}

func (g *fakeGateway) CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	g.lastCreate = in
	return &Session{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}

func (g *fakeGateway) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	s, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return s, nil
}

type fakeLedger struct {
	records     map[string]*payments.Payment
	recordCalls int
	recordErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]*payments.Payment{}}
}

func (l *fakeLedger) GetByIntent(ctx context.Context, paymentID string) (*payments.Payment, error) {
	return l.records[paymentID], nil
}

func (l *fakeLedger) Record(ctx context.Context, p payments.Payment) error {
	l.recordCalls++
	if l.recordErr != nil {
		return l.recordErr
	}
	if _, ok := l.records[p.PaymentID]; ok {
		return payments.ErrDuplicatePayment
	}
	l.records[p.PaymentID] = &p
	return nil
}

type fakeEvents struct{ sent int }

func (e *fakeEvents) SendPaymentEvent(ctx context.Context, body string, attrs map[string]string) error {
	e.sent++
	return nil
}

func paidSession(orderID, intentID string) *Session {
	return &Session{
		ID:              "cs_1",
		PaymentStatus:   PaymentStatusPaid,
		PaymentIntentID: intentID,
		CustomerEmail:   "reader@example.com",
		AmountTotal:     5000,
		Currency:        "usd",
		Metadata:        map[string]string{MetadataOrderID: orderID},
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		cost float64
		want int64
	}{
		{19.999, 2000},
		{5, 500},
		{0.01, 1},
		{50, 5000},
	}
	for _, tc := range cases {
		if got := MinorUnits(tc.cost); got != tc.want {
			t.Fatalf("MinorUnits(%v) = %d, want %d", tc.cost, got, tc.want)
		}
	}
}

func TestBeginCheckout(t *testing.T) {
	gw := &fakeGateway{}
	r := NewReconciler(gw, newFakeLedger(), nil, "usd", nil)

	url, err := r.BeginCheckout(context.Background(), 19.999, "order-1", "Reader", "reader@example.com")
	if err != nil {
		t.Fatalf("BeginCheckout error: %v", err)
	}
	if url != "https://checkout.test/cs_test" {
		t.Fatalf("unexpected url: %s", url)
	}
	if gw.lastCreate.AmountMinorUnits != 2000 {
		t.Fatalf("amount = %d, want 2000", gw.lastCreate.AmountMinorUnits)
	}
	if gw.lastCreate.Metadata[MetadataOrderID] != "order-1" {
		t.Fatalf("order metadata missing: %+v", gw.lastCreate.Metadata)
	}
}

func TestReconcile_MissingReference(t *testing.T) {
	r := NewReconciler(&fakeGateway{}, newFakeLedger(), nil, "usd", nil)

	if _, err := r.Reconcile(context.Background(), ""); !errors.Is(err, ErrMissingSession) {
		t.Fatalf("expected ErrMissingSession, got %v", err)
	}
}

func TestReconcile_NotCompletedLeavesNoMutation(t *testing.T) {
	sess := paidSession("order-1", "pi_1")
	sess.PaymentStatus = "unpaid"
	ledger := newFakeLedger()
	r := NewReconciler(&fakeGateway{sessions: map[string]*Session{"cs_1": sess}}, ledger, nil, "usd", nil)

	if _, err := r.Reconcile(context.Background(), "cs_1"); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
	if ledger.recordCalls != 0 {
		t.Fatalf("store mutated on incomplete payment")
	}
}

func TestReconcile_InvalidMetadata(t *testing.T) {
	noOrder := paidSession("", "pi_1")
	noIntent := paidSession("order-1", "")
	ledger := newFakeLedger()
	r := NewReconciler(&fakeGateway{sessions: map[string]*Session{"cs_a": noOrder, "cs_b": noIntent}}, ledger, nil, "usd", nil)

	for _, id := range []string{"cs_a", "cs_b"} {
		if _, err := r.Reconcile(context.Background(), id); !errors.Is(err, ErrInvalidMetadata) {
			t.Fatalf("session %s: expected ErrInvalidMetadata, got %v", id, err)
		}
	}
	if ledger.recordCalls != 0 {
		t.Fatalf("store mutated on invalid metadata")
	}
}

func TestReconcile_HappyPathThenReplay(t *testing.T) {
	ledger := newFakeLedger()
	events := &fakeEvents{}
	gw := &fakeGateway{sessions: map[string]*Session{"cs_1": paidSession("order-1", "pi_1")}}
	r := NewReconciler(gw, ledger, events, "usd", nil)
	ctx := context.Background()

	res, err := r.Reconcile(ctx, "cs_1")
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.PaymentIntentID != "pi_1" || res.AlreadyProcessed {
		t.Fatalf("unexpected result: %+v", res)
	}
	p := ledger.records["pi_1"]
	if p == nil {
		t.Fatalf("payment not recorded")
	}
	if p.Amount != 50 || p.Currency != "usd" || p.OrderID != "order-1" {
		t.Fatalf("payment fields wrong: %+v", p)
	}
	if events.sent != 1 {
		t.Fatalf("expected one event, got %d", events.sent)
	}

	// replay: same success, no extra record, no extra event
	res2, err := r.Reconcile(ctx, "cs_1")
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if !res2.AlreadyProcessed || res2.PaymentIntentID != "pi_1" {
		t.Fatalf("replay result: %+v", res2)
	}
	if ledger.recordCalls != 1 {
		t.Fatalf("replay hit the store: %d record calls", ledger.recordCalls)
	}
	if events.sent != 1 {
		t.Fatalf("replay published again")
	}
}

func TestReconcile_CancelledOrderNotPayable(t *testing.T) {
	ledger := newFakeLedger()
	ledger.recordErr = payments.ErrOrderNotPayable // order was cancelled underneath
	events := &fakeEvents{}
	gw := &fakeGateway{sessions: map[string]*Session{"cs_1": paidSession("order-1", "pi_1")}}
	r := NewReconciler(gw, ledger, events, "usd", nil)

	if _, err := r.Reconcile(context.Background(), "cs_1"); !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("expected ErrOrderNotPayable, got %v", err)
	}
	if len(ledger.records) != 0 {
		t.Fatalf("payment kept despite unpayable order")
	}
	if events.sent != 0 {
		t.Fatalf("event published despite unpayable order")
	}
}

func TestReconcile_RaceLoserSeesAlreadyProcessed(t *testing.T) {
	ledger := newFakeLedger()
	ledger.recordErr = payments.ErrDuplicatePayment // conditional insert lost the race
	gw := &fakeGateway{sessions: map[string]*Session{"cs_1": paidSession("order-1", "pi_1")}}
	r := NewReconciler(gw, ledger, nil, "usd", nil)

	res, err := r.Reconcile(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if !res.AlreadyProcessed {
		t.Fatalf("race loser should report already processed")
	}
}
