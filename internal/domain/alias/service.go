package alias

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jhodges/shuttlepay/internal/repository"
)

// Service handles alias directory operations.
type Service struct {
	aliases Repository
	logger  *slog.Logger
}

// NewService creates a new alias service.
func NewService(aliases Repository, logger *slog.Logger) *Service {
	return &Service{aliases: aliases, logger: logger}
}

// Resolve looks up an account identifier. It returns the stored alias, if
// one exists, and the first stored name present in the given roster. A
// stored alias with no roster match is returned with match == "" so the
// caller can use the stale names as disambiguation hints.
func (s *Service) Resolve(ctx context.Context, accountID string, rosterNames []string) (string, *Alias, error) {
	if accountID == "" {
		return "", nil, ErrInvalidInput
	}

	known, err := s.aliases.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("loading alias: %w", err)
	}

	match, _ := known.FirstIn(rosterNames)
	return match, known, nil
}

// Learn records that accountID has paid for name. Unknown accounts get a
// single-name mapping; known accounts are promoted to a list with the new
// name appended. Learning an already-stored pair is a no-op, and entries
// are never removed.
func (s *Service) Learn(ctx context.Context, accountID, name string) error {
	if accountID == "" || name == "" {
		return ErrInvalidInput
	}

	if err := s.aliases.Append(ctx, accountID, name); err != nil {
		return fmt.Errorf("learning alias: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("learned alias", "account", accountID, "name", name)
	}
	return nil
}
