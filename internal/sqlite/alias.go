package sqlite

import (
	"context"
	"fmt"

	"github.com/jhodges/shuttlepay/internal/domain/alias"
	"github.com/jhodges/shuttlepay/internal/repository"
)

// AliasRepository implements alias.Repository for SQLite. Rows are
// append-only: mappings gain names over time and never lose them.
type AliasRepository struct {
	db *DB
}

// NewAliasRepository creates a new AliasRepository
func NewAliasRepository(db *DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// Get retrieves the names mapped to an account, in learning order
func (r *AliasRepository) Get(ctx context.Context, accountID string) (*alias.Alias, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM aliases WHERE account_id = ? ORDER BY position ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}
	defer rows.Close()

	a := alias.Alias{AccountID: accountID}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan alias name: %w", err)
		}
		a.Names = append(a.Names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alias names: %w", err)
	}

	if len(a.Names) == 0 {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

// Append adds a name to an account's mapping. Appending an already-stored
// pair is a no-op.
func (r *AliasRepository) Append(ctx context.Context, accountID, name string) error {
	query := `
		INSERT INTO aliases (account_id, name, position)
		SELECT ?, ?, COUNT(*) FROM aliases WHERE account_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, accountID, name, accountID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to append alias: %w", err)
	}
	return nil
}
