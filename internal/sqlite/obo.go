package sqlite

import (
	"context"
	"fmt"
)

// OBORepository implements attribution.OBORegistry for SQLite
type OBORepository struct {
	db *DB
}

// NewOBORepository creates a new OBORepository
func NewOBORepository(db *DB) *OBORepository {
	return &OBORepository{db: db}
}

// Recipients returns who the donor has historically paid for, oldest first
func (r *OBORepository) Recipients(ctx context.Context, donor string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recipient FROM obo_pairs WHERE donor = ? ORDER BY rowid ASC`, donor)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var recipient string
		if err := rows.Scan(&recipient); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, recipient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}

	return recipients, nil
}

// Add remembers a donor/recipient pair; duplicates are a no-op
func (r *OBORepository) Add(ctx context.Context, donor, recipient string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO obo_pairs (donor, recipient) VALUES (?, ?)`, donor, recipient)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to add on-behalf-of pair: %w", err)
	}
	return nil
}
