package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind classifies how an attendee settled their charge.
type PaymentKind string

const (
	KindTransfer PaymentKind = "transfer"
	KindCash     PaymentKind = "cash"
	KindHost     PaymentKind = "host"
	KindNoShow   PaymentKind = "no show"
)

// Kinds lists all payment kinds in reporting order.
var Kinds = []PaymentKind{KindTransfer, KindCash, KindHost, KindNoShow}

// PaymentRecord holds the current amount per payment kind for one attendee.
// An attendee with an empty record has not paid.
type PaymentRecord map[PaymentKind]decimal.Decimal

// Paid reports whether any payment kind has been recorded.
func (r PaymentRecord) Paid() bool {
	return len(r) > 0
}

// Amount returns the recorded amount for a kind, zero if absent.
func (r PaymentRecord) Amount(kind PaymentKind) decimal.Decimal {
	if amt, ok := r[kind]; ok {
		return amt
	}
	return decimal.Zero
}

// Session is one weekly event: its roster and the running payment ledger,
// keyed by the canonical session timestamp.
type Session struct {
	Date          time.Time                `json:"date"`
	Charge        decimal.Decimal          `json:"charge"`
	Courts        int                      `json:"courts"`
	RowsProcessed int                      `json:"rows_processed"`
	AwayVenue     bool                     `json:"away_venue"`
	Roster        []string                 `json:"roster"`
	People        map[string]PaymentRecord `json:"people"`
}

// Has reports whether name is on the session roster.
func (s *Session) Has(name string) bool {
	_, ok := s.People[name]
	return ok
}

// Record returns the payment record for name, which may be empty.
func (s *Session) Record(name string) PaymentRecord {
	if rec, ok := s.People[name]; ok {
		return rec
	}
	return PaymentRecord{}
}

// Unpaid returns attendees with no recorded payment, in roster order.
func (s *Session) Unpaid() []string {
	var unpaid []string
	for _, name := range s.Roster {
		if !s.People[name].Paid() {
			unpaid = append(unpaid, name)
		}
	}
	return unpaid
}

// Total sums the recorded amounts of one payment kind across the roster.
func (s *Session) Total(kind PaymentKind) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range s.People {
		total = total.Add(rec.Amount(kind))
	}
	return total
}
