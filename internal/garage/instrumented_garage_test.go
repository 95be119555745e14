package garage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestGarage(t *testing.T, capacity int) *InstrumentedGarage {
	t.Helper()

	telemetry, err := NewTelemetryProvider()
	if err != nil {
		t.Fatalf("Failed to initialize telemetry: %v", err)
	}
	t.Cleanup(func() {
		// Shutdown flushes to the OTLP endpoint; without a local
		// collector running the flush fails, which is fine in tests.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = telemetry.Shutdown(ctx)
	})

	g, err := NewInstrumentedGarage(capacity, DefaultRateSchedule(), telemetry)
	if err != nil {
		t.Fatalf("Failed to create garage: %v", err)
	}
	return g
}

func TestInstrumentedGarageLifecycle(t *testing.T) {
	g := newTestGarage(t, 3)
	ctx := context.Background()
	entry := time.Date(2023, 5, 12, 9, 30, 0, 0, time.UTC)

	ticket, err := g.Issue(ctx, entry)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if ticket.Number != 1 {
		t.Errorf("Expected ticket number 1, got %d", ticket.Number)
	}

	tickets, err := g.ListAll(ctx)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if len(tickets) != 1 {
		t.Errorf("Expected 1 active ticket, got %d", len(tickets))
	}

	bill, err := g.GetBill(ctx, ticket.Number, entry.Add(2*time.Hour))
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if bill.AmountOwing != 4.5 {
		t.Errorf("Expected amount 4.5 after two hours, got %v", bill.AmountOwing)
	}

	payment := PaymentRequest{
		TicketNumber:     ticket.Number,
		CreditCardNumber: "4111-1111-1111-1111",
	}
	if err := g.Pay(ctx, ticket.Number, payment); err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}

	if _, err := g.GetBill(ctx, ticket.Number, entry.Add(3*time.Hour)); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("Expected ErrTicketNotFound after payment, got %v", err)
	}

	if _, err := g.ListAll(ctx); !errors.Is(err, ErrLotEmpty) {
		t.Errorf("Expected ErrLotEmpty after payment, got %v", err)
	}
}

func TestInstrumentedGarageLotFull(t *testing.T) {
	g := newTestGarage(t, 2)
	ctx := context.Background()
	entry := time.Date(2023, 5, 12, 9, 30, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if _, err := g.Issue(ctx, entry); err != nil {
			t.Fatalf("Unexpected error: %s", err.Error())
		}
	}

	if _, err := g.Issue(ctx, entry); !errors.Is(err, ErrLotFull) {
		t.Errorf("Expected ErrLotFull, got %v", err)
	}
}
