package garage

import "time"

// Ticket is an active parking stay. Both fields are set at issuance and
// never change afterwards.
type Ticket struct {
	Number    int64     `json:"ticketNumber"`
	EntryTime time.Time `json:"entryTime"`
}

// PaymentRequest is the payload presented to settle a ticket. It is
// transient; nothing of it is retained after the payment attempt.
type PaymentRequest struct {
	TicketNumber     int64  `json:"ticketNumber"`
	CreditCardNumber string `json:"creditCardNumber"`
}

// numberGenerator hands out ticket numbers for a single ledger. Numbers
// start at 1 and are never reissued for the generator's lifetime, so a
// paid ticket's number stays retired.
type numberGenerator struct {
	next int64
}

func (g *numberGenerator) Generate() int64 {
	g.next++
	return g.next
}
