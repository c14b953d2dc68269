package attribution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jhodges/shuttlepay/internal/domain/alias"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/jhodges/shuttlepay/internal/statement"
	"github.com/shopspring/decimal"
)

// How many past sessions are offered when carrying a payment forward.
const recentSessionLimit = 6

// Engine maps bank statement rows to attendees: alias lookup first, then
// interactive disambiguation, learning any newly identified mapping. It
// holds no state between invocations beyond what the repositories persist.
type Engine struct {
	ledger      Ledger
	aliases     AliasDirectory
	obo         OBORegistry
	incidentals IncidentalLog
	prompt      Prompter
	hostName    string
	logger      *slog.Logger
}

// NewEngine creates a new attribution engine.
func NewEngine(
	ledger Ledger,
	aliases AliasDirectory,
	obo OBORegistry,
	incidentals IncidentalLog,
	prompt Prompter,
	hostName string,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		ledger:      ledger,
		aliases:     aliases,
		obo:         obo,
		incidentals: incidentals,
		prompt:      prompt,
		hostName:    hostName,
		logger:      logger,
	}
}

// Process attributes the statement rows for a session. Only rows beyond the
// stored watermark are considered, so re-running against a growing
// statement file never double-attributes; on completion the watermark
// advances to the full row count. The host's own payment is recorded on the
// very first pass only. Returns the number of newly processed rows.
func (e *Engine) Process(ctx context.Context, date time.Time, rows []statement.Row) (int, error) {
	sess, err := e.ledger.Get(ctx, date)
	if err != nil {
		return 0, err
	}

	if sess.RowsProcessed == 0 && sess.Has(e.hostName) {
		if _, err := e.ledger.RecordPayment(ctx, date, e.hostName, sess.Charge, session.KindHost, false); err != nil {
			return 0, err
		}
	}

	if sess.RowsProcessed >= len(rows) {
		if e.logger != nil {
			e.logger.Info("no new statement rows", "date", date, "watermark", sess.RowsProcessed)
		}
		return 0, nil
	}

	fresh := rows[sess.RowsProcessed:]
	for i, row := range fresh {
		if err := e.attribute(ctx, date, row); err != nil {
			// Watermark untouched: a re-run resumes from the old position.
			return i, err
		}
	}

	if err := e.ledger.SetWatermark(ctx, date, len(rows)); err != nil {
		return len(fresh), err
	}
	return len(fresh), nil
}

// attribute resolves a single transaction row against the session roster.
func (e *Engine) attribute(ctx context.Context, date time.Time, row statement.Row) error {
	// Reload per row: earlier rows in the same run change who is unpaid.
	sess, err := e.ledger.Get(ctx, date)
	if err != nil {
		return err
	}

	match, known, err := e.aliases.Resolve(ctx, row.AccountName, sess.Roster)
	if err != nil {
		return err
	}
	if known == nil && row.AccountNumber != "" {
		match, known, err = e.aliases.Resolve(ctx, row.AccountNumber, sess.Roster)
		if err != nil {
			return err
		}
	}

	if match != "" && !sess.Record(match).Paid() {
		return e.attributePayment(ctx, date, sess, match, row.Amount)
	}

	return e.resolveInteractively(ctx, date, sess, row, known)
}

// attributePayment records a payment for an identified payer. Transfers of
// two or more charge-units consult the on-behalf-of registry first: each
// registered recipient still unpaid peels off one charge-unit until the
// remainder drops below one unit or recipients run out; the payer keeps
// whatever remains.
func (e *Engine) attributePayment(ctx context.Context, date time.Time, sess *session.Session, payer string, amount decimal.Decimal) error {
	charge := sess.Charge
	remaining := amount

	if charge.IsPositive() && amount.GreaterThanOrEqual(charge.Mul(decimal.NewFromInt(2))) {
		recipients, err := e.obo.Recipients(ctx, payer)
		if err != nil {
			return err
		}
		for _, recipient := range recipients {
			if remaining.LessThan(charge) {
				break
			}
			if !sess.Has(recipient) || sess.Record(recipient).Paid() {
				continue
			}
			if _, err := e.ledger.RecordPayment(ctx, date, recipient, charge, session.KindTransfer, true); err != nil {
				return err
			}
			rec := sess.Record(recipient)
			rec[session.KindTransfer] = charge
			sess.People[recipient] = rec
			remaining = remaining.Sub(charge)
			if e.logger != nil {
				e.logger.Info("auto-split on-behalf-of payment",
					"payer", payer, "recipient", recipient, "amount", charge.StringFixed(2))
			}
		}
	}

	if remaining.GreaterThan(decimal.Zero) {
		if _, err := e.ledger.RecordPayment(ctx, date, payer, remaining, session.KindTransfer, true); err != nil {
			return err
		}
	}
	return nil
}

// resolveInteractively asks the operator to identify the payer, offering an
// initial-matched shortlist before the full unpaid list. Escape choices
// route to the carry-forward and incidental flows; an unresolved row is
// dropped from attribution.
func (e *Engine) resolveInteractively(ctx context.Context, date time.Time, sess *session.Session, row statement.Row, known *alias.Alias) error {
	unpaid := sess.Unpaid()
	hint := row.AccountName
	var stale []string
	if known != nil {
		stale = known.Names
		hint = fmt.Sprintf("%s (previously %s)", row.AccountName, strings.Join(known.Names, ", "))
	}
	question := fmt.Sprintf("Who is %s? (£%s)", hint, row.Amount.StringFixed(2))

	shortlist := shortlistCandidates(row.AccountName, stale, unpaid)
	if len(shortlist) > 0 {
		choice, err := e.prompt.Choose(question, shortlist)
		if err != nil {
			return err
		}
		switch choice.Kind {
		case ChoiceSelect:
			if payer, ok := pick(shortlist, choice); ok {
				return e.identify(ctx, date, sess, row, payer)
			}
			return ErrInvalidInput
		case ChoiceCarryForward:
			return e.carryForward(ctx, date, row.Amount)
		case ChoiceIncidental:
			return e.logIncidental(ctx, row.AccountName, row.Date, row.Amount)
		case ChoiceIgnore:
			return e.drop(row)
		}
		// ChoiceUnknown falls through to the full unpaid list.
	}

	choice, err := e.prompt.Choose("Choose from all unpaid attendees:", unpaid)
	if err != nil {
		return err
	}
	switch choice.Kind {
	case ChoiceSelect:
		if payer, ok := pick(unpaid, choice); ok {
			return e.identify(ctx, date, sess, row, payer)
		}
		return ErrInvalidInput
	case ChoiceCarryForward:
		return e.carryForward(ctx, date, row.Amount)
	case ChoiceIncidental:
		return e.logIncidental(ctx, row.AccountName, row.Date, row.Amount)
	default:
		return e.drop(row)
	}
}

// identify learns the account mapping and attributes the payment.
func (e *Engine) identify(ctx context.Context, date time.Time, sess *session.Session, row statement.Row, payer string) error {
	accountID := row.AccountName
	if accountID == "" {
		accountID = row.AccountNumber
	}
	if err := e.aliases.Learn(ctx, accountID, payer); err != nil {
		return err
	}
	return e.attributePayment(ctx, date, sess, payer, row.Amount)
}

// carryForward attributes a payment against an unpaid attendee of a
// different recent session, then re-resolves that session's excess.
func (e *Engine) carryForward(ctx context.Context, current time.Time, amount decimal.Decimal) error {
	dates, err := e.ledger.ListRecent(ctx, recentSessionLimit)
	if err != nil {
		return err
	}

	var labels []string
	var targets []time.Time
	for _, d := range dates {
		if d.Equal(current) {
			continue
		}
		other, err := e.ledger.Get(ctx, d)
		if err != nil {
			return err
		}
		unpaid := other.Unpaid()
		if len(unpaid) == 0 {
			continue
		}
		labels = append(labels, fmt.Sprintf("%s (%d unpaid)", d.Format("Mon 2 Jan 2006"), len(unpaid)))
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		if e.logger != nil {
			e.logger.Warn("no other session with unpaid attendees; payment dropped",
				"amount", amount.StringFixed(2))
		}
		return nil
	}

	choice, err := e.prompt.Choose("Which session is this payment for?", labels)
	if err != nil {
		return err
	}
	if _, ok := pick(labels, choice); !ok {
		return nil
	}
	target := targets[choice.Index]

	other, err := e.ledger.Get(ctx, target)
	if err != nil {
		return err
	}
	unpaid := other.Unpaid()
	who, err := e.prompt.Choose(fmt.Sprintf("Who does this £%s belong to?", amount.StringFixed(2)), unpaid)
	if err != nil {
		return err
	}
	attendee, ok := pick(unpaid, who)
	if !ok {
		return nil
	}

	purpose, err := e.prompt.Text("Note for this payment: ")
	if err != nil {
		return err
	}
	if _, err := e.ledger.RecordPayment(ctx, target, attendee, amount, session.KindTransfer, true); err != nil {
		return err
	}
	if e.logger != nil {
		e.logger.Info("payment carried forward",
			"from", current, "to", target, "attendee", attendee,
			"amount", amount.StringFixed(2), "note", purpose)
	}

	return e.ResolveExcess(ctx, target)
}

// logIncidental records a payment unrelated to anyone's dues.
func (e *Engine) logIncidental(ctx context.Context, source string, date time.Time, amount decimal.Decimal) error {
	reason, err := e.prompt.Text("What was this payment for? ")
	if err != nil {
		return err
	}
	entry := &Incidental{
		ID:        uuid.NewString(),
		Date:      date,
		Source:    source,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := e.incidentals.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging incidental payment: %w", err)
	}
	return nil
}

// CollectCash loops asking whether anyone paid in cash, recording each
// amount against an unpaid attendee.
func (e *Engine) CollectCash(ctx context.Context, date time.Time) error {
	for {
		more, err := e.prompt.Confirm("Did anyone pay in cash? ")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		sess, err := e.ledger.Get(ctx, date)
		if err != nil {
			return err
		}
		unpaid := sess.Unpaid()
		if len(unpaid) == 0 {
			if e.logger != nil {
				e.logger.Info("everyone has paid", "date", date)
			}
			return nil
		}

		choice, err := e.prompt.Choose("Who?", unpaid)
		if err != nil {
			return err
		}
		attendee, ok := pick(unpaid, choice)
		if !ok {
			continue
		}
		amount, err := e.prompt.Amount("How much did they pay? £")
		if err != nil {
			return err
		}
		if _, err := e.ledger.RecordPayment(ctx, date, attendee, amount, session.KindCash, true); err != nil {
			return err
		}
	}
}

// CollectNoShows loops asking for no-shows, recording a zero amount so the
// attendee is settled without owing.
func (e *Engine) CollectNoShows(ctx context.Context, date time.Time) error {
	for {
		more, err := e.prompt.Confirm("Were there any no-shows? ")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		sess, err := e.ledger.Get(ctx, date)
		if err != nil {
			return err
		}
		unpaid := sess.Unpaid()
		if len(unpaid) == 0 {
			return nil
		}

		choice, err := e.prompt.Choose("Who?", unpaid)
		if err != nil {
			return err
		}
		attendee, ok := pick(unpaid, choice)
		if !ok {
			continue
		}
		if _, err := e.ledger.RecordPayment(ctx, date, attendee, decimal.Zero, session.KindNoShow, true); err != nil {
			return err
		}
	}
}

func (e *Engine) drop(row statement.Row) error {
	if e.logger != nil {
		e.logger.Warn("transaction dropped from attribution",
			"account", row.AccountName, "amount", row.Amount.StringFixed(2))
	}
	return nil
}

// shortlistCandidates orders unpaid attendees by the initials extracted
// from the hint text: the first matching initial wins placement, not
// alphabetical order. Stale alias names contribute their initials after the
// account text's own.
func shortlistCandidates(accountText string, staleNames, unpaid []string) []string {
	var initials []rune
	seen := make(map[rune]bool)
	addInitials := func(text string) {
		for _, word := range strings.Fields(text) {
			r := unicode.ToUpper([]rune(word)[0])
			if !unicode.IsLetter(r) || seen[r] {
				continue
			}
			seen[r] = true
			initials = append(initials, r)
		}
	}
	addInitials(accountText)
	for _, name := range staleNames {
		addInitials(name)
	}

	var shortlist []string
	used := make(map[string]bool)
	for _, initial := range initials {
		for _, name := range unpaid {
			if used[name] || name == "" {
				continue
			}
			if unicode.ToUpper([]rune(name)[0]) == initial {
				used[name] = true
				shortlist = append(shortlist, name)
			}
		}
	}
	return shortlist
}

func pick(options []string, c Choice) (string, bool) {
	if c.Kind != ChoiceSelect || c.Index < 0 || c.Index >= len(options) {
		return "", false
	}
	return options[c.Index], true
}
