package attribution_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func overpay(t *testing.T, f *fixture, name, amount string) {
	t.Helper()
	_, err := f.ledger.RecordPayment(context.Background(), sessionDate(), name,
		decimal.RequireFromString(amount), session.KindTransfer, false)
	require.NoError(t, err)
}

func TestResolveExcess_NoPromptWithinTolerance(t *testing.T) {
	f := newFixture(t)
	date := sessionDate()
	f.createSession(t, date, "Ben", "Moz")
	overpay(t, f, "Ben", "4.40")
	overpay(t, f, "Moz", "4.50") // within the 0.1 tolerance

	require.NoError(t, f.engine.ResolveExcess(context.Background(), date))
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_KeepLeavesAmountAlone(t *testing.T) {
	f := newFixture(t)
	date := sessionDate()
	f.createSession(t, date, "Ben")
	overpay(t, f, "Ben", "10.00")

	f.prompt.On("Choose", mock.Anything, mock.MatchedBy(func(opts []string) bool {
		return len(opts) == 4
	})).Return(attribution.Select(1), nil).Once()

	require.NoError(t, f.engine.ResolveExcess(context.Background(), date))
	require.Equal(t, "10.00", f.record(t, date, "Ben", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_ReassignSplitsOneCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := sessionDate()
	f.createSession(t, date, "Karlo", "Alex")
	overpay(t, f, "Karlo", "8.80")

	f.prompt.On("Choose", mock.Anything, mock.MatchedBy(func(opts []string) bool {
		return len(opts) == 4
	})).Return(attribution.Select(0), nil).Once()
	f.prompt.On("Choose", "Who did Karlo pay for?", []string{"Alex"}).
		Return(attribution.Select(0), nil).Once()
	f.obo.On("Add", mock.Anything, "Karlo", "Alex").Return(nil).Once()

	require.NoError(t, f.engine.ResolveExcess(ctx, date))

	require.Equal(t, "4.40", f.record(t, date, "Karlo", session.KindTransfer).StringFixed(2))
	require.Equal(t, "4.40", f.record(t, date, "Alex", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
	f.obo.AssertExpectations(t)
}

func TestResolveExcess_ReassignLoopsUntilSettled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := sessionDate()
	f.createSession(t, date, "Karlo", "Alex", "Ben")
	overpay(t, f, "Karlo", "13.20") // three charges

	f.prompt.On("Choose", mock.Anything, mock.MatchedBy(func(opts []string) bool {
		return len(opts) == 4
	})).Return(attribution.Select(0), nil).Twice()
	f.prompt.On("Choose", "Who did Karlo pay for?", []string{"Alex", "Ben"}).
		Return(attribution.Select(0), nil).Once()
	f.prompt.On("Choose", "Who did Karlo pay for?", []string{"Ben"}).
		Return(attribution.Select(0), nil).Once()
	f.obo.On("Add", mock.Anything, "Karlo", "Alex").Return(nil).Once()
	f.obo.On("Add", mock.Anything, "Karlo", "Ben").Return(nil).Once()

	require.NoError(t, f.engine.ResolveExcess(ctx, date))

	require.Equal(t, "4.40", f.record(t, date, "Karlo", session.KindTransfer).StringFixed(2))
	require.Equal(t, "4.40", f.record(t, date, "Alex", session.KindTransfer).StringFixed(2))
	require.Equal(t, "4.40", f.record(t, date, "Ben", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_IncidentalClampsAndLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := sessionDate()
	f.createSession(t, date, "Ben")
	overpay(t, f, "Ben", "12.00")

	f.prompt.On("Choose", mock.Anything, mock.Anything).
		Return(attribution.Select(2), nil).Once()
	f.prompt.On("Text", mock.Anything).Return("shuttles", nil).Once()
	f.incidentals.On("Log", mock.Anything, mock.MatchedBy(func(entry *attribution.Incidental) bool {
		return entry.Source == "Ben" &&
			entry.Amount.StringFixed(2) == "7.60" &&
			entry.Reason == "shuttles"
	})).Return(nil).Once()

	require.NoError(t, f.engine.ResolveExcess(ctx, date))
	require.Equal(t, "4.40", f.record(t, date, "Ben", session.KindTransfer).StringFixed(2))
	f.incidentals.AssertExpectations(t)
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_CarryForwardClampsThenMovesExcess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	current := sessionDate()
	previous := current.AddDate(0, 0, -7)
	f.createSession(t, current, "Ben")
	f.createSession(t, previous, "Pat")
	overpay(t, f, "Ben", "8.80")

	label := fmt.Sprintf("%s (1 unpaid)", previous.Format("Mon 2 Jan 2006"))
	f.prompt.On("Choose", mock.Anything, mock.MatchedBy(func(opts []string) bool {
		return len(opts) == 4
	})).Return(attribution.Select(3), nil).Once()
	f.prompt.On("Choose", "Which session is this payment for?", []string{label}).
		Return(attribution.Select(0), nil).Once()
	f.prompt.On("Choose", "Who does this £4.40 belong to?", []string{"Pat"}).
		Return(attribution.Select(0), nil).Once()
	f.prompt.On("Text", mock.Anything).Return("owed from last week", nil).Once()

	require.NoError(t, f.engine.ResolveExcess(ctx, current))

	require.Equal(t, "4.40", f.record(t, current, "Ben", session.KindTransfer).StringFixed(2))
	require.Equal(t, "4.40", f.record(t, previous, "Pat", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_EscapeChoiceStops(t *testing.T) {
	f := newFixture(t)
	date := sessionDate()
	f.createSession(t, date, "Ben")
	overpay(t, f, "Ben", "10.00")

	f.prompt.On("Choose", mock.Anything, mock.Anything).
		Return(attribution.Choice{Kind: attribution.ChoiceIgnore}, nil).Once()

	require.NoError(t, f.engine.ResolveExcess(context.Background(), date))
	require.Equal(t, "10.00", f.record(t, date, "Ben", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
}

func TestResolveExcess_ReassignWithNobodyUnpaidStops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := sessionDate()
	f.createSession(t, date, "Karlo", "Alex")
	overpay(t, f, "Karlo", "8.80")
	_, err := f.ledger.RecordPayment(ctx, date, "Alex", charge, session.KindCash, false)
	require.NoError(t, err)

	f.prompt.On("Choose", mock.Anything, mock.Anything).
		Return(attribution.Select(0), nil).Once()

	require.NoError(t, f.engine.ResolveExcess(ctx, date))
	require.Equal(t, "8.80", f.record(t, date, "Karlo", session.KindTransfer).StringFixed(2))
	f.prompt.AssertExpectations(t)
}
