package mocks

import (
	"context"
	"time"

	"github.com/jhodges/shuttlepay/internal/domain/alias"
	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// SessionRepository is a mock for session.Repository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, date time.Time) (*session.Session, error) {
	args := m.Called(ctx, date)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *SessionRepository) ListRecent(ctx context.Context, limit int) ([]time.Time, error) {
	args := m.Called(ctx, limit)
	if dates, ok := args.Get(0).([]time.Time); ok {
		return dates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) SetPayment(ctx context.Context, date time.Time, attendee string, kind session.PaymentKind, amount string) error {
	args := m.Called(ctx, date, attendee, kind, amount)
	return args.Error(0)
}

func (m *SessionRepository) SetWatermark(ctx context.Context, date time.Time, rows int) error {
	args := m.Called(ctx, date, rows)
	return args.Error(0)
}

// AliasRepository is a mock for alias.Repository.
type AliasRepository struct {
	mock.Mock
}

func (m *AliasRepository) Get(ctx context.Context, accountID string) (*alias.Alias, error) {
	args := m.Called(ctx, accountID)
	if a, ok := args.Get(0).(*alias.Alias); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AliasRepository) Append(ctx context.Context, accountID, name string) error {
	args := m.Called(ctx, accountID, name)
	return args.Error(0)
}

// OBORegistry is a mock for attribution.OBORegistry.
type OBORegistry struct {
	mock.Mock
}

func (m *OBORegistry) Recipients(ctx context.Context, donor string) ([]string, error) {
	args := m.Called(ctx, donor)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OBORegistry) Add(ctx context.Context, donor, recipient string) error {
	args := m.Called(ctx, donor, recipient)
	return args.Error(0)
}

// IncidentalLog is a mock for attribution.IncidentalLog.
type IncidentalLog struct {
	mock.Mock
}

func (m *IncidentalLog) Log(ctx context.Context, entry *attribution.Incidental) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *IncidentalLog) List(ctx context.Context) ([]attribution.Incidental, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]attribution.Incidental); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// Prompter is a mock for attribution.Prompter.
type Prompter struct {
	mock.Mock
}

func (m *Prompter) Choose(prompt string, options []string) (attribution.Choice, error) {
	args := m.Called(prompt, options)
	return args.Get(0).(attribution.Choice), args.Error(1)
}

func (m *Prompter) Text(prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

func (m *Prompter) Amount(prompt string) (decimal.Decimal, error) {
	args := m.Called(prompt)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *Prompter) Confirm(prompt string) (bool, error) {
	args := m.Called(prompt)
	return args.Bool(0), args.Error(1)
}
