package session

import (
	"context"
	"time"
)

// Repository provides persistence for sessions and their ledgers.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, date time.Time) (*Session, error)
	Delete(ctx context.Context, date time.Time) error
	ListRecent(ctx context.Context, limit int) ([]time.Time, error)
	SetPayment(ctx context.Context, date time.Time, attendee string, kind PaymentKind, amount string) error
	SetWatermark(ctx context.Context, date time.Time, rows int) error
}
