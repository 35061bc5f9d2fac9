package credits

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for the credit ledger. Balance mutations are
// atomic increments paired with their ledger entry in one transaction; the
// new balance is never computed client-side from a previously read value.
type Repository interface {
	// GetOrCreateBalance returns the user's balance row, creating it with
	// balance 0 on first access. Safe under concurrent first access: a
	// conflicting insert is treated as "already exists, re-read".
	GetOrCreateBalance(ctx context.Context, userID uuid.UUID) (*Balance, error)

	// Credit adds amount to the user's balance and appends the matching
	// ledger entry, both in one transaction. Returns the new balance.
	Credit(ctx context.Context, userID uuid.UUID, amount float64, kind TransactionKind, description string) (float64, error)

	// Debit subtracts amount from the user's balance only if the balance
	// covers it, appending the matching negative ledger entry in the same
	// transaction. Returns ErrInsufficientCredits without any side effect
	// when it does not.
	Debit(ctx context.Context, userID uuid.UUID, amount float64, kind TransactionKind, description string) (float64, error)

	GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error)
	ListActivePackages(ctx context.Context) ([]*Package, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
}
