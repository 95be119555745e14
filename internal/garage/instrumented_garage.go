package garage

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedGarage wraps a Ledger and its RateSchedule with tracing and
// metrics. The wrapped ledger stays the single owner of ticket state; this
// layer only observes.
type InstrumentedGarage struct {
	*Ledger
	Rates     RateSchedule
	telemetry *TelemetryProvider

	// Metrics
	ticketsIssued     metric.Int64Counter
	paymentsProcessed metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	capacityGauge     metric.Int64UpDownCounter
}

func NewInstrumentedGarage(capacity int, rates RateSchedule, telemetry *TelemetryProvider) (*InstrumentedGarage, error) {
	ledger := NewLedger(capacity)

	meter := telemetry.Meter()

	ticketsIssued, err := meter.Int64Counter("tickets_issued_total",
		metric.WithDescription("Total number of ticket issuance attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	paymentsProcessed, err := meter.Int64Counter("ticket_payments_total",
		metric.WithDescription("Total number of ticket payment attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("garage_occupancy",
		metric.WithDescription("Current number of active tickets in the lot"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of garage ledger operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	capacityGauge, err := meter.Int64UpDownCounter("garage_lot_capacity",
		metric.WithDescription("Configured lot capacity"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	g := &InstrumentedGarage{
		Ledger:            ledger,
		Rates:             rates,
		telemetry:         telemetry,
		ticketsIssued:     ticketsIssued,
		paymentsProcessed: paymentsProcessed,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		capacityGauge:     capacityGauge,
	}

	// Set initial capacity metric
	capacityGauge.Add(context.Background(), int64(capacity))

	return g, nil
}

func (g *InstrumentedGarage) Issue(ctx context.Context, now time.Time) (Ticket, error) {
	tracer := g.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "garage.issue_ticket")
	defer span.End()

	start := time.Now()

	span.AddEvent("checking_capacity")

	ticket, err := g.Ledger.Issue(now)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "issue"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "lot_full"))
		g.ticketsIssued.Add(ctx, 1, metric.WithAttributes(labels...))
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.Int64("ticket_number", ticket.Number),
		)
		span.SetAttributes(attribute.Int64("ticket.number", ticket.Number))
		span.AddEvent("ticket_issued", trace.WithAttributes(
			attribute.Int64("ticket_number", ticket.Number),
		))

		g.ticketsIssued.Add(ctx, 1, metric.WithAttributes(labels...))
		g.occupancyGauge.Add(ctx, 1)
	}

	g.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ticket, err
}

func (g *InstrumentedGarage) ListAll(ctx context.Context) ([]Ticket, error) {
	tracer := g.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "garage.list_tickets")
	defer span.End()

	start := time.Now()

	span.AddEvent("listing_active_tickets")

	tickets, err := g.Ledger.ListAll()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "list"),
	}

	if err != nil {
		span.AddEvent("lot_empty")
		labels = append(labels, attribute.String("status", "empty"))
	} else {
		span.SetAttributes(
			attribute.Int("active_tickets", len(tickets)),
			attribute.Int("lot_capacity", g.Capacity()),
		)
		labels = append(labels, attribute.String("status", "success"))
	}

	g.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return tickets, err
}

// GetBill looks up a ticket and derives its bill as of now.
func (g *InstrumentedGarage) GetBill(ctx context.Context, ticketNumber int64, now time.Time) (Bill, error) {
	tracer := g.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "garage.get_bill",
		trace.WithAttributes(
			attribute.Int64("ticket.number", ticketNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("looking_up_ticket")

	ticket, err := g.Ledger.FindByNumber(ticketNumber)

	labels := []attribute.KeyValue{
		attribute.String("operation", "get_bill"),
	}

	if err != nil {
		span.AddEvent("ticket_not_found")
		labels = append(labels, attribute.String("status", "not_found"))
		g.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))
		return Bill{}, err
	}

	bill := g.Rates.Bill(ticket, now)

	span.SetAttributes(
		attribute.Float64("bill.amount_owing", bill.AmountOwing),
		attribute.String("bill.time_parked", bill.TimeParked.String()),
	)
	span.AddEvent("bill_computed", trace.WithAttributes(
		attribute.Float64("amount_owing", bill.AmountOwing),
	))
	labels = append(labels, attribute.String("status", "success"))

	g.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return bill, nil
}

func (g *InstrumentedGarage) Pay(ctx context.Context, ticketNumber int64, payment PaymentRequest) error {
	tracer := g.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "garage.pay_ticket",
		trace.WithAttributes(
			attribute.Int64("ticket.number", ticketNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("settling_ticket")

	err := g.Ledger.Pay(ticketNumber, payment)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "pay"),
		attribute.Int64("ticket_number", ticketNumber),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", paymentFailureLabel(err)))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.AddEvent("ticket_paid_and_removed")
		g.occupancyGauge.Add(ctx, -1)
	}

	g.paymentsProcessed.Add(ctx, 1, metric.WithAttributes(labels...))
	g.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return err
}

func paymentFailureLabel(err error) string {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		return "not_found"
	case errors.Is(err, ErrTicketMismatch):
		return "ticket_mismatch"
	case errors.Is(err, ErrMissingCard):
		return "missing_card"
	case errors.Is(err, ErrInvalidCard):
		return "invalid_card"
	default:
		return "failed"
	}
}
