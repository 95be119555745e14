package garage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Shell is an interactive attendant console over a garage. Every command
// gets its own span.
type Shell struct {
	garage    *InstrumentedGarage
	scanner   *bufio.Scanner
	telemetry *TelemetryProvider
	now       func() time.Time
}

func NewShell(garage *InstrumentedGarage, telemetry *TelemetryProvider) *Shell {
	return &Shell{
		garage:    garage,
		scanner:   bufio.NewScanner(os.Stdin),
		telemetry: telemetry,
		now:       time.Now,
	}
}

func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.parse_command")
	defer span.End()

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "issue":
		s.handleIssue(ctx)
	case "bill":
		s.handleBill(ctx, parts)
	case "pay":
		s.handlePay(ctx, parts)
	case "list":
		s.handleList(ctx)
	case "status":
		s.handleStatus(ctx)
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		fmt.Printf("Unknown command: %s\n", command)
	}
}

func (s *Shell) handleIssue(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.issue_command")
	defer span.End()

	ticket, err := s.garage.Issue(ctx, s.now())
	if err != nil {
		span.AddEvent("issue_failed")
		fmt.Println("Lot full. Please come back later.")
		return
	}

	span.AddEvent("ticket_issued", trace.WithAttributes(
		attribute.Int64("ticket_number", ticket.Number),
	))
	fmt.Printf("Issued ticket %d at %s\n", ticket.Number, ticket.EntryTime.Format(time.RFC3339))
}

func (s *Shell) handleBill(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.bill_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: bill <ticket_number>")
		return
	}

	ticketNumber, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		span.RecordError(fmt.Errorf("invalid ticket number: %s", parts[1]))
		span.AddEvent("invalid_ticket_number")
		fmt.Println("Invalid ticket number")
		return
	}

	span.SetAttributes(attribute.Int64("ticket_number", ticketNumber))

	bill, err := s.garage.GetBill(ctx, ticketNumber, s.now())
	if err != nil {
		span.AddEvent("ticket_not_found")
		fmt.Println("Ticket number not found.")
		return
	}

	span.AddEvent("bill_retrieved", trace.WithAttributes(
		attribute.Float64("amount_owing", bill.AmountOwing),
	))
	fmt.Printf("Ticket %d: parked %s, owing %.2f\n", bill.TicketNumber, bill.TimeParked, bill.AmountOwing)
}

func (s *Shell) handlePay(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.pay_command")
	defer span.End()

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: pay <ticket_number> <credit_card_number>")
		return
	}

	ticketNumber, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		span.RecordError(fmt.Errorf("invalid ticket number: %s", parts[1]))
		span.AddEvent("invalid_ticket_number")
		fmt.Println("Invalid ticket number")
		return
	}

	span.SetAttributes(attribute.Int64("ticket_number", ticketNumber))

	payment := PaymentRequest{
		TicketNumber:     ticketNumber,
		CreditCardNumber: parts[2],
	}

	err = s.garage.Pay(ctx, ticketNumber, payment)
	if err != nil {
		span.AddEvent("payment_failed")
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	span.AddEvent("payment_successful")
	fmt.Println("Your ticket has been paid.")
}

func (s *Shell) handleList(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.list_command")
	defer span.End()

	tickets, err := s.garage.ListAll(ctx)
	if err != nil {
		span.AddEvent("lot_empty")
		fmt.Println("Lot is empty.")
		return
	}

	span.SetAttributes(attribute.Int("active_tickets", len(tickets)))
	span.AddEvent("tickets_listed")

	fmt.Println("Ticket No.\tEntry Time")
	for _, ticket := range tickets {
		fmt.Printf("%d\t\t%s\n", ticket.Number, ticket.EntryTime.Format(time.RFC3339))
	}
}

func (s *Shell) handleStatus(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.status_command")
	defer span.End()

	count := s.garage.Count()
	capacity := s.garage.Capacity()

	span.SetAttributes(
		attribute.Int("active_tickets", count),
		attribute.Int("lot_capacity", capacity),
	)
	span.AddEvent("status_retrieved")

	fmt.Printf("%d of %d spots taken, %d free\n", count, capacity, capacity-count)
}
