package roster

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoRoster indicates the source has no sheet for the requested session.
var ErrNoRoster = errors.New("no roster for session")

// ImportData is everything the roster source supplies for one session.
type ImportData struct {
	RawNames   []string
	Attendance int
	Charge     decimal.Decimal
	Courts     int
}

// Source supplies the signup data for a session date.
type Source interface {
	SessionData(ctx context.Context, sessionTime time.Time) (*ImportData, error)
}
