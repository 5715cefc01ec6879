package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/mahib2121/BoiGhor-Server/internal/aws"
	"github.com/mahib2121/BoiGhor-Server/internal/orders"
	"github.com/mahib2121/BoiGhor-Server/internal/payments"
)

const metricNamespace = "BoiGhor"

// Processor consumes order-paid events and publishes reconciliation metrics.
type Processor struct {
	payments   *payments.Store
	cloudwatch aws.CloudWatchAPI
	logger     *slog.Logger
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, paymentsTable, ordersTable string, logger *slog.Logger) *Processor {
	ordersStore := orders.NewStore(clients.DynamoDB, ordersTable)
	return &Processor{
		payments:   payments.NewStore(clients.DynamoDB, paymentsTable, ordersStore),
		cloudwatch: clients.CloudWatch,
		logger:     logger,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", "err", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev PaidEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.logger.Info("received paid event", "order_id", ev.OrderID, "payment_id", ev.PaymentID)

	// The event is emitted after the payment is durable, so an absent record
	// means something is wrong upstream — DLQ it.
	payment, err := p.payments.GetByIntent(ctx, ev.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment not found: %s", ev.PaymentID)
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("PaymentsReconciled"),
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("Currency"), Value: sdkaws.String(payment.Currency)},
				},
			},
			{
				MetricName: sdkaws.String("ReconciledAmount"),
				Value:      sdkaws.Float64(payment.Amount),
				Unit:       cwtypes.StandardUnitNone,
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("Currency"), Value: sdkaws.String(payment.Currency)},
				},
			},
		},
	}
	if _, err := p.cloudwatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}

	p.logger.Info("recorded reconciliation metric", "order_id", ev.OrderID, "amount", payment.Amount)
	return nil
}
