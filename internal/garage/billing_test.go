package garage

import (
	"testing"
	"time"
)

func TestBillBaseRateOnEntry(t *testing.T) {
	rs := DefaultRateSchedule()
	now := time.Date(2023, 5, 12, 9, 30, 0, 0, time.UTC)
	ticket := Ticket{Number: 1, EntryTime: now}

	bill := rs.Bill(ticket, now)

	if bill.AmountOwing != 3 {
		t.Errorf("Expected amount 3 immediately after entry, got %v", bill.AmountOwing)
	}
	if bill.TimeParked != 0 {
		t.Errorf("Expected zero time parked, got %v", bill.TimeParked)
	}
	if !bill.ExitTime.Equal(now) {
		t.Errorf("Expected exit time %v, got %v", now, bill.ExitTime)
	}
}

func TestBillTierAmounts(t *testing.T) {
	rs := DefaultRateSchedule()
	now := time.Date(2023, 5, 12, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		amount  float64
	}{
		{"just entered", 0, 3},
		{"under an hour", 59 * time.Minute, 3},
		{"exactly one hour", 1 * time.Hour, 4.5},
		{"under three hours", 2*time.Hour + 59*time.Minute, 4.5},
		{"exactly three hours", 3 * time.Hour, 6.75},
		{"under six hours", 5*time.Hour + 59*time.Minute, 6.75},
		{"exactly six hours", 6 * time.Hour, 10.13},
		{"all day", 14 * time.Hour, 10.13},
	}

	for _, tc := range cases {
		ticket := Ticket{Number: 1, EntryTime: now.Add(-tc.elapsed)}
		bill := rs.Bill(ticket, now)
		if bill.AmountOwing != tc.amount {
			t.Errorf("%s: expected amount %v, got %v", tc.name, tc.amount, bill.AmountOwing)
		}
	}
}

func TestBillDeterministic(t *testing.T) {
	rs := DefaultRateSchedule()
	entry := time.Date(2023, 5, 12, 9, 30, 0, 0, time.UTC)
	now := entry.Add(4 * time.Hour)
	ticket := Ticket{Number: 7, EntryTime: entry}

	first := rs.Bill(ticket, now)
	second := rs.Bill(ticket, now)

	if first.AmountOwing != second.AmountOwing {
		t.Errorf("Expected identical amounts, got %v and %v", first.AmountOwing, second.AmountOwing)
	}
	if first.TimeParked != second.TimeParked {
		t.Errorf("Expected identical time parked, got %v and %v", first.TimeParked, second.TimeParked)
	}
}

func TestBillMonotonicNonDecreasing(t *testing.T) {
	rs := DefaultRateSchedule()
	entry := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)
	ticket := Ticket{Number: 1, EntryTime: entry}

	previous := 0.0
	for elapsed := time.Duration(0); elapsed <= 12*time.Hour; elapsed += 15 * time.Minute {
		bill := rs.Bill(ticket, entry.Add(elapsed))
		if bill.AmountOwing < previous {
			t.Errorf("Amount decreased from %v to %v at elapsed %v", previous, bill.AmountOwing, elapsed)
		}
		previous = bill.AmountOwing
	}
}

func TestBillRounding(t *testing.T) {
	// 7 * 1.5^3 = 23.625, which rounds half away from zero to 23.63.
	rs := RateSchedule{BaseRate: 7, Multiplier: 1.5}
	entry := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)
	ticket := Ticket{Number: 1, EntryTime: entry}

	bill := rs.Bill(ticket, entry.Add(8*time.Hour))
	if bill.AmountOwing != 23.63 {
		t.Errorf("Expected 23.63, got %v", bill.AmountOwing)
	}
}

func TestBillCarriesTicketFields(t *testing.T) {
	rs := DefaultRateSchedule()
	entry := time.Date(2023, 5, 12, 9, 30, 0, 0, time.UTC)
	now := entry.Add(90 * time.Minute)
	ticket := Ticket{Number: 12, EntryTime: entry}

	bill := rs.Bill(ticket, now)

	if bill.TicketNumber != 12 {
		t.Errorf("Expected ticket number 12, got %d", bill.TicketNumber)
	}
	if !bill.EntryTime.Equal(entry) {
		t.Errorf("Expected entry time %v, got %v", entry, bill.EntryTime)
	}
	if bill.TimeParked != 90*time.Minute {
		t.Errorf("Expected time parked 90m, got %v", bill.TimeParked)
	}
}
