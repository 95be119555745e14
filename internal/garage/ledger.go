package garage

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the reference lot size.
const DefaultCapacity = 10

// Ledger owns the set of active tickets for one lot. Admission is gated
// on capacity, lookups are by ticket number, and a ticket leaves the
// ledger only through Remove (or a successful Pay). A single mutex
// serializes every operation.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	numbers  numberGenerator
	tickets  map[int64]Ticket
}

func NewLedger(capacity int) *Ledger {
	return &Ledger{
		capacity: capacity,
		tickets:  make(map[int64]Ticket, capacity),
	}
}

// Issue admits one vehicle: it fails with ErrLotFull at capacity,
// otherwise stores and returns a fresh ticket stamped with now.
func (l *Ledger) Issue(now time.Time) (Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tickets) >= l.capacity {
		return Ticket{}, ErrLotFull
	}

	ticket := Ticket{
		Number:    l.numbers.Generate(),
		EntryTime: now,
	}
	l.tickets[ticket.Number] = ticket
	return ticket, nil
}

// ListAll returns every active ticket ordered by ticket number. An empty
// lot is reported as ErrLotEmpty rather than an empty slice so callers
// can distinguish the two outcomes.
func (l *Ledger) ListAll() ([]Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tickets) == 0 {
		return nil, ErrLotEmpty
	}

	tickets := make([]Ticket, 0, len(l.tickets))
	for _, t := range l.tickets {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].Number < tickets[j].Number
	})
	return tickets, nil
}

func (l *Ledger) FindByNumber(ticketNumber int64) (Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ticket, ok := l.tickets[ticketNumber]
	if !ok {
		return Ticket{}, ErrTicketNotFound
	}
	return ticket, nil
}

func (l *Ledger) Remove(ticketNumber int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remove(ticketNumber)
}

func (l *Ledger) remove(ticketNumber int64) error {
	if _, ok := l.tickets[ticketNumber]; !ok {
		return ErrTicketNotFound
	}
	delete(l.tickets, ticketNumber)
	return nil
}

// Pay settles a ticket: the ticket must exist, the payment must name the
// same ticket number, and the card number must match a known card scheme
// after separators are stripped. On success the ticket is removed; no
// record of the payment is kept. Any failure leaves the ledger untouched.
func (l *Ledger) Pay(ticketNumber int64, payment PaymentRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.tickets[ticketNumber]; !ok {
		return ErrTicketNotFound
	}
	if payment.TicketNumber != ticketNumber {
		return ErrTicketMismatch
	}
	if strings.TrimSpace(payment.CreditCardNumber) == "" {
		return ErrMissingCard
	}
	if !ValidCardNumber(payment.CreditCardNumber) {
		return ErrInvalidCard
	}

	return l.remove(ticketNumber)
}

func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickets)
}

func (l *Ledger) Capacity() int {
	return l.capacity
}
