package credits

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPackage is returned when the package does not exist or is
	// inactive.
	ErrInvalidPackage = errors.New("invalid credit package")
	// ErrInsufficientCredits is returned when a debit exceeds the balance.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// TransactionKind is the business reason for a ledger entry.
type TransactionKind string

const (
	KindPurchase        TransactionKind = "purchase"
	KindPromotionSpend  TransactionKind = "promotion_spend"
	KindPromotionRefund TransactionKind = "promotion_refund"
)

// Balance is a user's credit balance. One row per user, created lazily on
// first access, mutated only through atomic increments so that it always
// equals the sum of the user's transactions.
type Balance struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is one append-only ledger entry. Amounts are signed: purchases
// are positive, spends negative. Never mutated or deleted.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      float64         `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Package is a purchasable credit bundle from the catalog.
type Package struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CreditsAmount float64   `json:"credits_amount"`
	BonusCredits  float64   `json:"bonus_credits"`
	Price         float64   `json:"price"`
	IsActive      bool      `json:"is_active"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PurchaseRequest is the payload for buying a credit package.
type PurchaseRequest struct {
	PackageID string `json:"package_id"`
}

// PurchaseResult reports the outcome of a purchase.
type PurchaseResult struct {
	Balance      float64 `json:"balance"`
	CreditsAdded float64 `json:"credits_added"`
}
