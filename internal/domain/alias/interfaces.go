package alias

import "context"

// Repository provides persistence for the alias directory.
type Repository interface {
	Get(ctx context.Context, accountID string) (*Alias, error)
	Append(ctx context.Context, accountID, name string) error
}
