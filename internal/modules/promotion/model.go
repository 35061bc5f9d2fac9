package promotion

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrForbidden is returned when the caller does not own the product's
	// store.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidDays is returned when the requested duration is outside the
	// configured [min, max] range.
	ErrInvalidDays = errors.New("invalid promotion duration")
)

// Pricing is the promotion price configuration. One active row in the store
// is authoritative; DefaultPricing applies when none exists.
type Pricing struct {
	PricePerDay float64 `json:"price_per_day"`
	MinDays     int     `json:"min_days"`
	MaxDays     int     `json:"max_days"`
}

// DefaultPricing applies when no active pricing row is configured.
var DefaultPricing = Pricing{PricePerDay: 10, MinDays: 1, MaxDays: 30}

// Cost returns the credit cost of promoting for the given number of days.
func (p Pricing) Cost(days int) float64 {
	return p.PricePerDay * float64(days)
}

// DaysInRange reports whether days is within the configured bounds.
func (p Pricing) DaysInRange(days int) bool {
	return days >= p.MinDays && days <= p.MaxDays
}

// PromoteRequest is the payload for promoting a product.
type PromoteRequest struct {
	Days int `json:"days"`
}

// PromoteResult reports the granted promotion window and the caller's
// remaining balance.
type PromoteResult struct {
	ProductID         uuid.UUID `json:"product_id"`
	Days              int       `json:"days"`
	Cost              float64   `json:"cost"`
	Balance           float64   `json:"balance"`
	PromotedStartDate time.Time `json:"promoted_start_date"`
	PromotedEndDate   time.Time `json:"promoted_end_date"`
}
