package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a
	// transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrdersByStore returns all orders for a store, optionally filtered
	// by status.
	ListOrdersByStore(ctx context.Context, storeID uuid.UUID, status string) ([]*Order, error)

	// ListOrdersByBuyer returns all orders placed by a buyer.
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)

	// AdvanceStatus moves the order to a new status on behalf of
	// actingUserID. The store-ownership check, the transition-legality
	// check against the currently stored status, and the write all happen
	// inside one transaction with the order row locked, so the check can
	// neither race the write nor be bypassed. Returns ErrNotFound,
	// ErrForbidden, or ErrInvalidTransition.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, to Status, actingUserID uuid.UUID) error

	// GetProductForOrder fetches the fields checkout needs to snapshot a
	// product into an order item.
	GetProductForOrder(ctx context.Context, productID uuid.UUID) (storeID uuid.UUID, price float64, active bool, err error)
}
