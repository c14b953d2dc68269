package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhodges/shuttlepay/internal/repository"
	"github.com/shopspring/decimal"
)

// Service handles session lifecycle and ledger operations.
type Service struct {
	sessions Repository
	logger   *slog.Logger
}

// NewService creates a new session service.
func NewService(sessions Repository, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, logger: logger}
}

// Create stores a new session for a cleaned roster. It fails with
// ErrSessionExists if the date already has one; use Recreate to overwrite.
func (s *Service) Create(ctx context.Context, date time.Time, names []string, charge decimal.Decimal, courts int) (*Session, error) {
	if date.IsZero() {
		return nil, ErrInvalidInput
	}

	if _, err := s.sessions.Get(ctx, date); err == nil {
		return nil, ErrSessionExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking session: %w", err)
	}

	sess := &Session{
		Date:   date,
		Charge: charge,
		Courts: courts,
		Roster: names,
		People: make(map[string]PaymentRecord, len(names)),
	}
	for _, name := range names {
		sess.People[name] = PaymentRecord{}
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("created session", "date", date, "attendees", len(names))
	}
	return sess, nil
}

// Recreate deletes any existing session for the date and creates a fresh one.
func (s *Service) Recreate(ctx context.Context, date time.Time, names []string, charge decimal.Decimal, courts int) (*Session, error) {
	if err := s.sessions.Delete(ctx, date); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("deleting session: %w", err)
	}
	return s.Create(ctx, date, names, charge, courts)
}

// Get loads the session for a date.
func (s *Service) Get(ctx context.Context, date time.Time) (*Session, error) {
	sess, err := s.sessions.Get(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// ListRecent returns up to limit session dates, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]time.Time, error) {
	dates, err := s.sessions.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return dates, nil
}

// RecordPayment writes one ledger entry and persists it immediately, so an
// aborted run never loses payments already attributed. With accumulate set,
// the amount is added to any existing amount of the same kind; otherwise it
// replaces it. Other kinds for the attendee are untouched. Returns the new
// current amount for the kind.
func (s *Service) RecordPayment(ctx context.Context, date time.Time, attendee string, amount decimal.Decimal, kind PaymentKind, accumulate bool) (decimal.Decimal, error) {
	if attendee == "" {
		return decimal.Zero, ErrInvalidInput
	}

	sess, err := s.Get(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	if !sess.Has(attendee) {
		return decimal.Zero, ErrUnknownAttendee
	}

	current := sess.Record(attendee).Amount(kind)
	next := amount
	if accumulate {
		next = current.Add(amount)
	}

	if err := s.sessions.SetPayment(ctx, date, attendee, kind, next.String()); err != nil {
		return decimal.Zero, fmt.Errorf("recording payment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("payment recorded",
			"attendee", attendee, "kind", string(kind), "amount", next.StringFixed(2))
	}
	return next, nil
}

// SetWatermark stores the count of statement rows processed for the session.
func (s *Service) SetWatermark(ctx context.Context, date time.Time, rows int) error {
	if rows < 0 {
		return ErrInvalidInput
	}
	if err := s.sessions.SetWatermark(ctx, date, rows); err != nil {
		return fmt.Errorf("setting watermark: %w", err)
	}
	return nil
}

// Unpaid returns the attendees of a session with no recorded payment.
func (s *Service) Unpaid(ctx context.Context, date time.Time) ([]string, error) {
	sess, err := s.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	return sess.Unpaid(), nil
}
