package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service defines promotion entitlement business logic.
type Service interface {
	// GetPricing returns the active pricing configuration, falling back to
	// DefaultPricing when none is configured.
	GetPricing(ctx context.Context) (Pricing, error)

	// PromoteProduct grants a time-bounded promoted state on a product the
	// caller owns, paid for from their credit balance. Expiry of the
	// window is not actively enforced; promoted_end_date is informational.
	PromoteProduct(ctx context.Context, userID uuid.UUID, productID string, days int) (*PromoteResult, error)
}

type service struct {
	repo Repository
}

// NewService creates a new promotion service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetPricing(ctx context.Context) (Pricing, error) {
	p, err := s.repo.GetActivePricing(ctx)
	if errors.Is(err, ErrNotFound) {
		return DefaultPricing, nil
	}
	if err != nil {
		return Pricing{}, err
	}
	return *p, nil
}

func (s *service) PromoteProduct(ctx context.Context, userID uuid.UUID, productID string, days int) (*PromoteResult, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	pricing, err := s.GetPricing(ctx)
	if err != nil {
		return nil, err
	}
	if !pricing.DaysInRange(days) {
		return nil, fmt.Errorf("%w: must be between %d and %d days", ErrInvalidDays, pricing.MinDays, pricing.MaxDays)
	}

	cost := pricing.Cost(days)
	start := time.Now()
	end := start.AddDate(0, 0, days)

	newBalance, err := s.repo.PromoteProduct(ctx, userID, pid, cost, start, end)
	if err != nil {
		return nil, err
	}

	return &PromoteResult{
		ProductID:         pid,
		Days:              days,
		Cost:              cost,
		Balance:           newBalance,
		PromotedStartDate: start,
		PromotedEndDate:   end,
	}, nil
}
