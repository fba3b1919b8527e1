package payments

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the referenced payment does not exist.
	ErrNotFound = errors.New("payment not found")

	// ErrInvalidInput indicates the payment data violates a business rule,
	// such as a non-positive amount or an unknown enum value.
	ErrInvalidInput = errors.New("invalid payment input")
)

// Filter narrows payment queries. Zero-valued fields impose no constraint;
// present fields combine conjunctively. Start and End bound created_at
// inclusively; either bound may be set alone.
type Filter struct {
	Status Status
	Method Method
	Start  *time.Time
	End    *time.Time
}

// Store defines the contract implemented by payment ledger backends.
// FindPage must return records ordered by created_at descending; pagination
// correctness depends on that ordering.
type Store interface {
	Insert(ctx context.Context, p Payment) error
	InsertMany(ctx context.Context, ps []Payment) error
	FindByID(ctx context.Context, id string) (Payment, error)
	FindPage(ctx context.Context, f Filter, skip, limit int) ([]Payment, error)
	Count(ctx context.Context, f Filter) (int64, error)
	SumAmount(ctx context.Context, f Filter) (float64, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]TrendPoint, error)
}
