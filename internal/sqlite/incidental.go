package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/jhodges/shuttlepay/internal/repository"
	"github.com/shopspring/decimal"
)

// IncidentalRepository implements attribution.IncidentalLog for SQLite
type IncidentalRepository struct {
	db *DB
}

// NewIncidentalRepository creates a new IncidentalRepository
func NewIncidentalRepository(db *DB) *IncidentalRepository {
	return &IncidentalRepository{db: db}
}

// Log stores one incidental payment
func (r *IncidentalRepository) Log(ctx context.Context, entry *attribution.Incidental) error {
	query := `
		INSERT INTO incidental_payments (id, date, source, amount, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Date,
		entry.Source,
		entry.Amount.String(),
		entry.Reason,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to log incidental payment: %w", err)
	}
	return nil
}

// List returns all incidental payments, oldest first
func (r *IncidentalRepository) List(ctx context.Context) ([]attribution.Incidental, error) {
	query := `
		SELECT id, date, source, amount, reason, created_at
		FROM incidental_payments
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidental payments: %w", err)
	}
	defer rows.Close()

	var entries []attribution.Incidental
	for rows.Next() {
		var entry attribution.Incidental
		var amount string
		var date, createdAt time.Time
		if err := rows.Scan(&entry.ID, &date, &entry.Source, &amount, &entry.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan incidental payment: %w", err)
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid incidental amount %q: %w", amount, err)
		}
		entry.Date = date
		entry.CreatedAt = createdAt
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incidental payments: %w", err)
	}

	return entries, nil
}
