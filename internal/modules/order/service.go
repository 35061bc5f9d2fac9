package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart, snapshots product prices, and persists
	// the order atomically. The order starts in pending.
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// ListStoreOrders returns all orders for a store, optionally filtered
	// by status.
	ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error)

	// ListBuyerOrders returns all orders placed by a buyer.
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)

	// AdvanceStatus moves the order to a new lifecycle status on behalf of
	// the acting user, who must own the order's store.
	AdvanceStatus(ctx context.Context, actingUserID uuid.UUID, orderID string, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo Repository
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	var items []*Item
	var total float64
	var storeID uuid.UUID

	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", ci.ProductID)
		}
		pid, err := uuid.Parse(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		productStoreID, price, active, err := s.repo.GetProductForOrder(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", ci.ProductID)
		}
		if !active {
			return nil, fmt.Errorf("product %s is not available for purchase", ci.ProductID)
		}
		if storeID == uuid.Nil {
			storeID = productStoreID
		} else if storeID != productStoreID {
			return nil, fmt.Errorf("all items must belong to the same store")
		}

		lineTotal := price * float64(ci.Quantity)
		total += lineTotal
		items = append(items, &Item{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  ci.Quantity,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
	}

	o := &Order{
		ID:      uuid.New(),
		BuyerID: buyerID,
		StoreID: storeID,
		Status:  StatusPending,
		Total:   total,
		Items:   items,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetOrderByID(ctx, oid)
}

func (s *service) ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, ErrNotFound
	}
	if status != "" && !Status(status).Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListOrdersByStore(ctx, sid, status)
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrdersByBuyer(ctx, buyerID)
}

func (s *service) AdvanceStatus(ctx context.Context, actingUserID uuid.UUID, orderID string, req UpdateStatusRequest) (*Order, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	to := Status(req.Status)
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	if err := s.repo.AdvanceStatus(ctx, oid, to, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, oid)
}
