package promotion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lusakadev/soko-backend/internal/modules/credits"
)

type promotedState struct {
	start, end time.Time
}

// fakePromotionRepo performs the ownership check, the conditional debit and
// the product update under one lock, matching the single-transaction contract
// of the SQL repository.
type fakePromotionRepo struct {
	mu       sync.Mutex
	pricing  *Pricing
	owners   map[uuid.UUID]uuid.UUID // product id -> owner id
	balances map[uuid.UUID]float64
	promoted map[uuid.UUID]promotedState
	spends   []float64
}

func newFakePromotionRepo() *fakePromotionRepo {
	return &fakePromotionRepo{
		owners:   make(map[uuid.UUID]uuid.UUID),
		balances: make(map[uuid.UUID]float64),
		promoted: make(map[uuid.UUID]promotedState),
	}
}

func (f *fakePromotionRepo) GetActivePricing(ctx context.Context) (*Pricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pricing == nil {
		return nil, ErrNotFound
	}
	p := *f.pricing
	return &p, nil
}

func (f *fakePromotionRepo) PromoteProduct(ctx context.Context, actingUserID, productID uuid.UUID, cost float64, start, end time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[productID]
	if !ok {
		return 0, ErrNotFound
	}
	if owner != actingUserID {
		return 0, ErrForbidden
	}
	if f.balances[actingUserID] < cost {
		return 0, credits.ErrInsufficientCredits
	}
	f.balances[actingUserID] -= cost
	f.spends = append(f.spends, cost)
	f.promoted[productID] = promotedState{start: start, end: end}
	return f.balances[actingUserID], nil
}

func TestGetPricingFallsBackToDefaults(t *testing.T) {
	repo := newFakePromotionRepo()
	svc := NewService(repo)

	p, err := svc.GetPricing(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultPricing, p)

	repo.pricing = &Pricing{PricePerDay: 4, MinDays: 2, MaxDays: 14}
	p, err = svc.GetPricing(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4.0, p.PricePerDay)
	require.Equal(t, 2, p.MinDays)
	require.Equal(t, 14, p.MaxDays)
}

func TestPricingCost(t *testing.T) {
	p := Pricing{PricePerDay: 10, MinDays: 1, MaxDays: 30}
	require.Equal(t, 10.0, p.Cost(1))
	require.Equal(t, 70.0, p.Cost(7))
	require.Equal(t, 300.0, p.Cost(30))

	require.False(t, p.DaysInRange(0))
	require.True(t, p.DaysInRange(1))
	require.True(t, p.DaysInRange(30))
	require.False(t, p.DaysInRange(31))
}

func TestPromoteProductGrantsWindow(t *testing.T) {
	repo := newFakePromotionRepo()
	svc := NewService(repo)

	ownerID := uuid.New()
	productID := uuid.New()
	repo.owners[productID] = ownerID
	repo.balances[ownerID] = 100

	result, err := svc.PromoteProduct(context.Background(), ownerID, productID.String(), 3)
	require.NoError(t, err)
	require.Equal(t, 30.0, result.Cost)
	require.Equal(t, 70.0, result.Balance)
	require.Equal(t, 3, result.Days)

	state, ok := repo.promoted[productID]
	require.True(t, ok)
	wantEnd := state.start.AddDate(0, 0, 3)
	require.Equal(t, wantEnd, state.end)
	require.Equal(t, result.PromotedEndDate, state.end)
}

func TestPromoteProductRejectsOutOfRangeDays(t *testing.T) {
	repo := newFakePromotionRepo()
	svc := NewService(repo)

	ownerID := uuid.New()
	productID := uuid.New()
	repo.owners[productID] = ownerID
	repo.balances[ownerID] = 1000

	for _, days := range []int{0, -1, 31} {
		_, err := svc.PromoteProduct(context.Background(), ownerID, productID.String(), days)
		require.ErrorIs(t, err, ErrInvalidDays, "days=%d", days)
	}
	require.Empty(t, repo.spends, "rejected requests must not spend credits")
	require.Equal(t, 1000.0, repo.balances[ownerID])
}

func TestPromoteProductInsufficientCredits(t *testing.T) {
	repo := newFakePromotionRepo()
	svc := NewService(repo)

	ownerID := uuid.New()
	productID := uuid.New()
	repo.owners[productID] = ownerID
	repo.balances[ownerID] = 30

	_, err := svc.PromoteProduct(context.Background(), ownerID, productID.String(), 5)
	require.ErrorIs(t, err, credits.ErrInsufficientCredits)
	require.Equal(t, 30.0, repo.balances[ownerID], "failed promotion must leave the balance untouched")
	_, promoted := repo.promoted[productID]
	require.False(t, promoted, "failed promotion must not flag the product")
}

func TestPromoteProductForbiddenAndNotFound(t *testing.T) {
	repo := newFakePromotionRepo()
	svc := NewService(repo)

	ownerID := uuid.New()
	productID := uuid.New()
	repo.owners[productID] = ownerID
	repo.balances[ownerID] = 100

	_, err := svc.PromoteProduct(context.Background(), uuid.New(), productID.String(), 3)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.PromoteProduct(context.Background(), ownerID, uuid.NewString(), 3)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PromoteProduct(context.Background(), ownerID, "not-a-uuid", 3)
	require.ErrorIs(t, err, ErrNotFound)
}
