package credits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines credit ledger business logic.
type Service interface {
	// GetBalance returns the caller's balance, creating an empty one on
	// first access.
	GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error)

	// PurchaseCredits credits the caller with a package's credits plus
	// bonus. Payment capture is a placeholder: no gateway is called before
	// the credit is applied.
	PurchaseCredits(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*PurchaseResult, error)

	ListPackages(ctx context.Context) ([]*Package, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
}

type service struct {
	repo Repository
}

// NewService creates a new credits service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	return s.repo.GetOrCreateBalance(ctx, userID)
}

func (s *service) PurchaseCredits(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*PurchaseResult, error) {
	pid, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, ErrInvalidPackage
	}
	pkg, err := s.repo.GetPackageByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, ErrInvalidPackage
	}

	totalCredits := pkg.CreditsAmount + pkg.BonusCredits
	description := fmt.Sprintf("Purchased %s package", pkg.Name)
	newBalance, err := s.repo.Credit(ctx, userID, totalCredits, KindPurchase, description)
	if err != nil {
		return nil, err
	}

	return &PurchaseResult{Balance: newBalance, CreditsAdded: totalCredits}, nil
}

func (s *service) ListPackages(ctx context.Context) ([]*Package, error) {
	return s.repo.ListActivePackages(ctx)
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}
