package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/jhodges/shuttlepay/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIncidentalRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewIncidentalRepository(db)
	ctx := context.Background()

	later := &attribution.Incidental{
		ID:        uuid.NewString(),
		Date:      time.Date(2022, 8, 19, 0, 0, 0, 0, time.UTC),
		Source:    "Mohan",
		Amount:    decimal.RequireFromString("5.00"),
		Reason:    "Kelsey Kerridge session",
		CreatedAt: time.Now().UTC(),
	}
	earlier := &attribution.Incidental{
		ID:        uuid.NewString(),
		Date:      time.Date(2022, 8, 6, 0, 0, 0, 0, time.UTC),
		Source:    "V",
		Amount:    decimal.RequireFromString("12.00"),
		Reason:    "train ticket",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Log(ctx, later))
	require.NoError(t, repo.Log(ctx, earlier))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "V", entries[0].Source)
	require.Equal(t, "12.00", entries[0].Amount.StringFixed(2))
	require.Equal(t, "train ticket", entries[0].Reason)
	require.Equal(t, "Mohan", entries[1].Source)
}

func TestIncidentalRepository_DuplicateID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewIncidentalRepository(db)
	ctx := context.Background()

	entry := &attribution.Incidental{
		ID:        uuid.NewString(),
		Date:      time.Now().UTC(),
		Source:    "V",
		Amount:    decimal.RequireFromString("12.00"),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Log(ctx, entry))
	require.ErrorIs(t, repo.Log(ctx, entry), repository.ErrConflict)
}
