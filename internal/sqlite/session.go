package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/jhodges/shuttlepay/internal/repository"
	"github.com/shopspring/decimal"
)

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a session and its roster
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sessions (date, charge, courts, rows_processed, away_venue)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		dateKey(sess.Date),
		sess.Charge.String(),
		sess.Courts,
		sess.RowsProcessed,
		sess.AwayVenue,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	for i, name := range sess.Roster {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attendees (session_date, name, position) VALUES (?, ?, ?)`,
			dateKey(sess.Date), name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to store attendee: %w", err)
		}
	}

	for name, rec := range sess.People {
		for kind, amount := range rec {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO payments (session_date, attendee, kind, amount) VALUES (?, ?, ?, ?)`,
				dateKey(sess.Date), name, string(kind), amount.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to store payment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Get retrieves a session, its roster and its ledger by date key
func (r *SessionRepository) Get(ctx context.Context, date time.Time) (*session.Session, error) {
	query := `
		SELECT date, charge, courts, rows_processed, away_venue
		FROM sessions
		WHERE date = ?
	`

	var key, charge string
	sess := session.Session{People: make(map[string]session.PaymentRecord)}
	err := r.db.QueryRowContext(ctx, query, dateKey(date)).Scan(
		&key,
		&charge,
		&sess.Courts,
		&sess.RowsProcessed,
		&sess.AwayVenue,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.Date, err = parseDateKey(key); err != nil {
		return nil, err
	}
	if sess.Charge, err = decimal.NewFromString(charge); err != nil {
		return nil, fmt.Errorf("invalid charge %q: %w", charge, err)
	}

	if err := r.loadRoster(ctx, &sess); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// Delete removes a session, its roster and its ledger
func (r *SessionRepository) Delete(ctx context.Context, date time.Time) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE date = ?`, dateKey(date))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListRecent returns session dates, newest first
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date FROM sessions ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan session date: %w", err)
		}
		date, err := parseDateKey(key)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return dates, nil
}

// SetPayment writes the current amount for one attendee and kind
func (r *SessionRepository) SetPayment(ctx context.Context, date time.Time, attendee string, kind session.PaymentKind, amount string) error {
	query := `
		INSERT INTO payments (session_date, attendee, kind, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_date, attendee, kind)
		DO UPDATE SET amount = excluded.amount, updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, dateKey(date), attendee, string(kind), amount)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to set payment: %w", err)
	}
	return nil
}

// SetWatermark stores the processed statement row count for a session
func (r *SessionRepository) SetWatermark(ctx context.Context, date time.Time, rowCount int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET rows_processed = ? WHERE date = ?`, rowCount, dateKey(date))
	if err != nil {
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) loadRoster(ctx context.Context, sess *session.Session) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM attendees WHERE session_date = ? ORDER BY position ASC`,
		dateKey(sess.Date))
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan attendee: %w", err)
		}
		sess.Roster = append(sess.Roster, name)
		sess.People[name] = session.PaymentRecord{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating roster: %w", err)
	}
	return nil
}

func (r *SessionRepository) loadPayments(ctx context.Context, sess *session.Session) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT attendee, kind, amount FROM payments WHERE session_date = ?`,
		dateKey(sess.Date))
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attendee, kind, amount string
		if err := rows.Scan(&attendee, &kind, &amount); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid payment amount %q: %w", amount, err)
		}
		rec, ok := sess.People[attendee]
		if !ok {
			rec = session.PaymentRecord{}
			sess.People[attendee] = rec
		}
		rec[session.PaymentKind(kind)] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating payments: %w", err)
	}
	return nil
}
