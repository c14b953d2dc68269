package attribution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/shopspring/decimal"
)

// Actions offered for each overpayment, in prompt order.
const (
	resolveReassign = iota
	resolveKeep
	resolveIncidental
	resolveCarryForward
)

var resolveOptions = []string{
	"They paid for another attendee",
	"Keep the full amount against them",
	"Log the excess as an incidental payment",
	"Carry the excess forward to another session",
}

// ResolveExcess walks the session ledger looking for attendees whose
// recorded amount for any payment kind exceeds the per-person charge by
// more than the epsilon, prompting for how to settle each one. A single
// resolution can leave residual excess, so each attendee loops until the
// excess is within tolerance or the operator opts to stop.
func (e *Engine) ResolveExcess(ctx context.Context, date time.Time) error {
	sess, err := e.ledger.Get(ctx, date)
	if err != nil {
		return err
	}
	if !sess.Charge.IsPositive() {
		return nil
	}

	for _, name := range sess.Roster {
		for _, kind := range session.Kinds {
			if err := e.resolveAttendee(ctx, date, name, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) resolveAttendee(ctx context.Context, date time.Time, name string, kind session.PaymentKind) error {
	for {
		// Reload every pass: reassignments change both this attendee's
		// amount and who is still unpaid.
		sess, err := e.ledger.Get(ctx, date)
		if err != nil {
			return err
		}
		amount := sess.Record(name).Amount(kind)
		excess := amount.Sub(sess.Charge)
		if excess.LessThanOrEqual(excessEpsilon) {
			return nil
		}

		question := fmt.Sprintf("%s has £%s recorded as %s against a £%s charge. What about the extra £%s?",
			name, amount.StringFixed(2), kind, sess.Charge.StringFixed(2), excess.StringFixed(2))
		choice, err := e.prompt.Choose(question, resolveOptions)
		if err != nil {
			return err
		}
		if choice.Kind != ChoiceSelect {
			return nil
		}

		switch choice.Index {
		case resolveReassign:
			stop, err := e.reassignOneCharge(ctx, date, sess, name, kind, amount)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}

		case resolveKeep:
			return nil

		case resolveIncidental:
			reason, err := e.prompt.Text("What was the excess for? ")
			if err != nil {
				return err
			}
			entry := &Incidental{
				ID:        uuid.NewString(),
				Date:      sess.Date,
				Source:    name,
				Amount:    excess,
				Reason:    reason,
				CreatedAt: time.Now(),
			}
			if err := e.incidentals.Log(ctx, entry); err != nil {
				return fmt.Errorf("logging incidental payment: %w", err)
			}
			if _, err := e.ledger.RecordPayment(ctx, date, name, sess.Charge, kind, false); err != nil {
				return err
			}
			return nil

		case resolveCarryForward:
			// Clamp first so the recursive resolution of the target
			// session can't re-trip on this attendee.
			if _, err := e.ledger.RecordPayment(ctx, date, name, sess.Charge, kind, false); err != nil {
				return err
			}
			if err := e.carryForward(ctx, date, excess); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// reassignOneCharge splits one charge-unit off an overpayment onto another
// unpaid attendee and remembers the donor/recipient pair for future
// auto-splitting. Returns stop=true when no unpaid attendee remains.
func (e *Engine) reassignOneCharge(ctx context.Context, date time.Time, sess *session.Session, donor string, kind session.PaymentKind, amount decimal.Decimal) (bool, error) {
	unpaid := sess.Unpaid()
	if len(unpaid) == 0 {
		if e.logger != nil {
			e.logger.Warn("no unpaid attendee to reassign to", "donor", donor)
		}
		return true, nil
	}

	choice, err := e.prompt.Choose(fmt.Sprintf("Who did %s pay for?", donor), unpaid)
	if err != nil {
		return false, err
	}
	recipient, ok := pick(unpaid, choice)
	if !ok {
		return true, nil
	}

	if _, err := e.ledger.RecordPayment(ctx, date, recipient, sess.Charge, session.KindTransfer, true); err != nil {
		return false, err
	}
	if _, err := e.ledger.RecordPayment(ctx, date, donor, amount.Sub(sess.Charge), kind, false); err != nil {
		return false, err
	}
	if err := e.obo.Add(ctx, donor, recipient); err != nil {
		return false, fmt.Errorf("registering on-behalf-of pair: %w", err)
	}
	return false, nil
}
