package attribution

import (
	"context"
	"time"

	"github.com/jhodges/shuttlepay/internal/domain/alias"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/shopspring/decimal"
)

// Ledger provides session state and durable payment recording.
type Ledger interface {
	Get(ctx context.Context, date time.Time) (*session.Session, error)
	RecordPayment(ctx context.Context, date time.Time, attendee string, amount decimal.Decimal, kind session.PaymentKind, accumulate bool) (decimal.Decimal, error)
	SetWatermark(ctx context.Context, date time.Time, rows int) error
	ListRecent(ctx context.Context, limit int) ([]time.Time, error)
}

// AliasDirectory resolves bank account identifiers to attendee names and
// learns new mappings.
type AliasDirectory interface {
	Resolve(ctx context.Context, accountID string, rosterNames []string) (string, *alias.Alias, error)
	Learn(ctx context.Context, accountID, name string) error
}

// OBORegistry remembers which attendees an account holder has paid for, so
// future multi-unit transfers can be split automatically.
type OBORegistry interface {
	Recipients(ctx context.Context, donor string) ([]string, error)
	Add(ctx context.Context, donor, recipient string) error
}

// IncidentalLog stores payments unrelated to any session's dues.
type IncidentalLog interface {
	Log(ctx context.Context, entry *Incidental) error
	List(ctx context.Context) ([]Incidental, error)
}

// Prompter supplies human decisions. Implementations block indefinitely
// awaiting input; the engine has no other suspension points.
type Prompter interface {
	// Choose presents a numbered option list and returns the parsed choice.
	Choose(prompt string, options []string) (Choice, error)
	// Text asks a free-form question.
	Text(prompt string) (string, error)
	// Amount asks for a currency amount.
	Amount(prompt string) (decimal.Decimal, error)
	// Confirm asks a yes/no question.
	Confirm(prompt string) (bool, error)
}
