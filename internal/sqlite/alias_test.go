package sqlite

import (
	"context"
	"testing"

	"github.com/jhodges/shuttlepay/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAliasRepository_AppendAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAliasRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "SMITH J", "Josy"))

	a, err := repo.Get(ctx, "SMITH J")
	require.NoError(t, err)
	require.Equal(t, "SMITH J", a.AccountID)
	require.Equal(t, []string{"Josy"}, a.Names)

	single, ok := a.Single()
	require.True(t, ok)
	require.Equal(t, "Josy", single)
}

func TestAliasRepository_Get_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAliasRepository(db)

	_, err := repo.Get(context.Background(), "NOBODY")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAliasRepository_PromotionPreservesOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAliasRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "KARLO B", "Karlo"))
	require.NoError(t, repo.Append(ctx, "KARLO B", "Alex"))
	require.NoError(t, repo.Append(ctx, "KARLO B", "Alex H"))

	a, err := repo.Get(ctx, "KARLO B")
	require.NoError(t, err)
	require.Equal(t, []string{"Karlo", "Alex", "Alex H"}, a.Names)

	_, ok := a.Single()
	require.False(t, ok)
}

func TestAliasRepository_AppendIdempotent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAliasRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "SMITH J", "Josy"))
	require.NoError(t, repo.Append(ctx, "SMITH J", "Josy"))

	a, err := repo.Get(ctx, "SMITH J")
	require.NoError(t, err)
	require.Equal(t, []string{"Josy"}, a.Names)
}
