package order

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeProduct struct {
	storeID uuid.UUID
	price   float64
	active  bool
}

type fakeRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*Order
	owners   map[uuid.UUID]uuid.UUID // store id -> owner id
	products map[uuid.UUID]fakeProduct
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:   make(map[uuid.UUID]*Order),
		owners:   make(map[uuid.UUID]uuid.UUID),
		products: make(map[uuid.UUID]fakeProduct),
	}
}

func (f *fakeRepo) CreateOrder(ctx context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) ListOrdersByStore(ctx context.Context, storeID uuid.UUID, status string) ([]*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Order
	for _, o := range f.orders {
		if o.StoreID == storeID && (status == "" || string(o.Status) == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

// AdvanceStatus mirrors the SQL contract: ownership and transition legality
// are checked against current state under the same lock as the write.
func (f *fakeRepo) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to Status, actingUserID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	if f.owners[o.StoreID] != actingUserID {
		return ErrForbidden
	}
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

func (f *fakeRepo) GetProductForOrder(ctx context.Context, productID uuid.UUID) (uuid.UUID, float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return uuid.Nil, 0, false, ErrNotFound
	}
	return p.storeID, p.price, p.active, nil
}

func seedOrder(f *fakeRepo, status Status) (orderID, sellerID uuid.UUID) {
	sellerID = uuid.New()
	storeID := uuid.New()
	f.owners[storeID] = sellerID
	o := &Order{ID: uuid.New(), BuyerID: uuid.New(), StoreID: storeID, Status: status, Total: 42}
	f.orders[o.ID] = o
	return o.ID, sellerID
}

func TestAdvanceStatusFullLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	orderID, sellerID := seedOrder(repo, StatusPending)

	for _, next := range []Status{StatusPaid, StatusConfirmed, StatusShipped, StatusDelivered} {
		o, err := svc.AdvanceStatus(context.Background(), sellerID, orderID.String(), UpdateStatusRequest{Status: string(next)})
		require.NoError(t, err, "advancing to %s", next)
		require.Equal(t, next, o.Status)
	}

	// delivered is terminal
	_, err := svc.AdvanceStatus(context.Background(), sellerID, orderID.String(), UpdateStatusRequest{Status: string(StatusCancelled)})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceStatusCancelMidway(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	orderID, sellerID := seedOrder(repo, StatusConfirmed)

	o, err := svc.AdvanceStatus(context.Background(), sellerID, orderID.String(), UpdateStatusRequest{Status: string(StatusCancelled)})
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, o.Status)

	_, err = svc.AdvanceStatus(context.Background(), sellerID, orderID.String(), UpdateStatusRequest{Status: string(StatusShipped)})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceStatusForbiddenForNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	orderID, _ := seedOrder(repo, StatusConfirmed)

	stranger := uuid.New()
	_, err := svc.AdvanceStatus(context.Background(), stranger, orderID.String(), UpdateStatusRequest{Status: string(StatusShipped)})
	require.ErrorIs(t, err, ErrForbidden)

	o, err := repo.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, o.Status, "status must be untouched")
}

func TestAdvanceStatusUnknownLabel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	orderID, sellerID := seedOrder(repo, StatusPending)

	_, err := svc.AdvanceStatus(context.Background(), sellerID, orderID.String(), UpdateStatusRequest{Status: "refunded"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdvanceStatusNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	_, sellerID := seedOrder(repo, StatusPending)

	_, err := svc.AdvanceStatus(context.Background(), sellerID, uuid.NewString(), UpdateStatusRequest{Status: string(StatusPaid)})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AdvanceStatus(context.Background(), sellerID, "not-a-uuid", UpdateStatusRequest{Status: string(StatusPaid)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderSnapshotsPrices(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	storeID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()
	repo.products[p1] = fakeProduct{storeID: storeID, price: 10.50, active: true}
	repo.products[p2] = fakeProduct{storeID: storeID, price: 3, active: true}

	buyerID := uuid.New()
	o, err := svc.PlaceOrder(context.Background(), buyerID, PlaceOrderRequest{Items: []CartItem{
		{ProductID: p1.String(), Quantity: 2},
		{ProductID: p2.String(), Quantity: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, buyerID, o.BuyerID)
	require.Equal(t, storeID, o.StoreID)
	require.Equal(t, 24.0, o.Total)
	require.Len(t, o.Items, 2)
	require.Equal(t, 21.0, o.Items[0].LineTotal)
}

func TestPlaceOrderRejectsInactiveProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p := uuid.New()
	repo.products[p] = fakeProduct{storeID: uuid.New(), price: 5, active: false}

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{Items: []CartItem{{ProductID: p.String(), Quantity: 1}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not available")
}

func TestPlaceOrderRejectsMixedStores(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p1 := uuid.New()
	p2 := uuid.New()
	repo.products[p1] = fakeProduct{storeID: uuid.New(), price: 5, active: true}
	repo.products[p2] = fakeProduct{storeID: uuid.New(), price: 5, active: true}

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{Items: []CartItem{
		{ProductID: p1.String(), Quantity: 1},
		{ProductID: p2.String(), Quantity: 1},
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "same store")
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{})
	require.Error(t, err)
}
