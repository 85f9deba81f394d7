package repository

import (
	"context"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
)

// OrderRepository defines order data access methods. Every write is a
// single-row, single-statement operation; correctness under concurrent
// finalize attempts rests on the unique constraint on order_number.
type OrderRepository interface {
	// InsertIfAbsent inserts the order unless a row with the same order
	// number already exists. Returns true when a row was inserted.
	InsertIfAbsent(ctx context.Context, order *domain.Order) (bool, error)
	// MarkPaid sets status to paid for the given order number. Idempotent
	// by construction; a second call is a no-op. It never creates a row.
	MarkPaid(ctx context.Context, orderNumber string) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	// ListRecent returns the newest orders first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Order OrderRepository
}
