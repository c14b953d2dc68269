package attribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// Incidental is a received payment unrelated to any session's per-person
// charge, kept in a dated log with a free-text reason.
type Incidental struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Source    string          `json:"source"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
}

// excessEpsilon is the tolerance below which an overpayment is ignored.
var excessEpsilon = decimal.RequireFromString("0.1")
