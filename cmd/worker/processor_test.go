package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/mahib2121/BoiGhor-Server/internal/orders"
	"github.com/mahib2121/BoiGhor-Server/internal/payments"
	"github.com/mahib2121/BoiGhor-Server/internal/testutil"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func newTestProcessor(t *testing.T) (*Processor, *testutil.Dynamo, *fakeCloudWatch) {
	t.Helper()
	mock := testutil.NewDynamo()
	cw := &fakeCloudWatch{}
	ordersStore := orders.NewStore(mock, "orders")
	return &Processor{
		payments:   payments.NewStore(mock, "payments", ordersStore),
		cloudwatch: cw,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, mock, cw
}

func seedPayment(t *testing.T, mock *testutil.Dynamo, p payments.Payment) {
	t.Helper()
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		t.Fatalf("marshal payment: %v", err)
	}
	mock.Seed("payments", item)
}

func TestHandlePublishesMetrics(t *testing.T) {
	proc, mock, cw := newTestProcessor(t)
	seedPayment(t, mock, payments.Payment{
		PaymentID: "pi_1",
		OrderID:   "order-1",
		Email:     "reader@example.com",
		Amount:    50,
		Currency:  "usd",
		Status:    "paid",
		CreatedAt: time.Now().UTC(),
	})

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"order_id":"order-1","payment_id":"pi_1","email":"reader@example.com"}`},
	}}
	if err := proc.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if len(cw.inputs) != 1 {
		t.Fatalf("expected one metric call, got %d", len(cw.inputs))
	}
	data := cw.inputs[0].MetricData
	if len(data) != 2 {
		t.Fatalf("expected two datums, got %d", len(data))
	}
	if *data[0].MetricName != "PaymentsReconciled" || *data[1].MetricName != "ReconciledAmount" {
		t.Fatalf("metric names: %s, %s", *data[0].MetricName, *data[1].MetricName)
	}
	if *data[1].Value != 50 {
		t.Fatalf("amount datum = %v", *data[1].Value)
	}
}

func TestHandleUnknownPaymentFailsForRetry(t *testing.T) {
	proc, _, cw := newTestProcessor(t)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"order_id":"order-1","payment_id":"pi_missing"}`},
	}}
	if err := proc.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for missing payment")
	}
	if len(cw.inputs) != 0 {
		t.Fatalf("metric published for missing payment")
	}
}

func TestHandleMalformedBody(t *testing.T) {
	proc, _, _ := newTestProcessor(t)

	ev := events.SQSEvent{Records: []events.SQSMessage{{Body: "not json"}}}
	if err := proc.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}
