package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines data access for promotion pricing and grants.
type Repository interface {
	// GetActivePricing returns the single active pricing row, or
	// ErrNotFound when none is configured.
	GetActivePricing(ctx context.Context) (*Pricing, error)

	// PromoteProduct verifies that actingUserID owns the product's store,
	// debits cost from their credit balance, appends the promotion-spend
	// ledger entry, and sets the product's promotion window — all inside
	// one transaction, so a failure at any step leaves no side effect.
	// Returns the new balance, or ErrNotFound, ErrForbidden,
	// credits.ErrInsufficientCredits.
	PromoteProduct(ctx context.Context, actingUserID, productID uuid.UUID, cost float64, start, end time.Time) (float64, error)
}
