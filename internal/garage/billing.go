package garage

import (
	"math"
	"time"
)

// Reference rate constants.
const (
	DefaultBaseRate   = 3.0
	DefaultMultiplier = 1.5
)

// Tier boundaries. The schedule escalates once at each boundary: the base
// rate under an hour, then base times multiplier, multiplier squared and
// multiplier cubed at the one, three and six hour marks.
const (
	hourlyTierLimit = 1 * time.Hour
	shortTierLimit  = 3 * time.Hour
	longTierLimit   = 6 * time.Hour
)

// RateSchedule is the tiered flat-rate fee policy for a lot.
type RateSchedule struct {
	BaseRate   float64
	Multiplier float64
}

func DefaultRateSchedule() RateSchedule {
	return RateSchedule{
		BaseRate:   DefaultBaseRate,
		Multiplier: DefaultMultiplier,
	}
}

// Bill is the amount owed on a ticket as of a given moment. It is derived
// fresh on every request and never stored; if time moves on between a
// bill query and payment the next derivation simply lands in a later tier.
type Bill struct {
	TicketNumber int64         `json:"ticketNumber"`
	EntryTime    time.Time     `json:"entryTime"`
	ExitTime     time.Time     `json:"exitTime"`
	TimeParked   time.Duration `json:"timeParked"`
	AmountOwing  float64       `json:"amountOwing"`
}

// Bill computes the amount owed on ticket as of now. It reads no state
// beyond its arguments: same ticket and same now, same bill.
func (rs RateSchedule) Bill(ticket Ticket, now time.Time) Bill {
	parked := now.Sub(ticket.EntryTime)

	var amount float64
	switch {
	case parked >= longTierLimit:
		amount = rs.BaseRate * math.Pow(rs.Multiplier, 3)
	case parked >= shortTierLimit:
		amount = rs.BaseRate * math.Pow(rs.Multiplier, 2)
	case parked >= hourlyTierLimit:
		amount = rs.BaseRate * rs.Multiplier
	default:
		amount = rs.BaseRate
	}

	return Bill{
		TicketNumber: ticket.Number,
		EntryTime:    ticket.EntryTime,
		ExitTime:     now,
		TimeParked:   parked,
		AmountOwing:  roundCents(amount),
	}
}

// roundCents rounds to two decimals, halves away from zero.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
