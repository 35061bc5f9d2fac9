package collection

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type curationState struct {
	storeID    uuid.UUID
	isPromoted bool
	status     string
}

// fakeCollectionRepo assigns order_index values under one lock the way the
// SQL repository does inside a serializable transaction: max over surviving
// members plus one, starting at zero.
type fakeCollectionRepo struct {
	mu            sync.Mutex
	collections   map[uuid.UUID]*Collection
	members       map[uuid.UUID]map[uuid.UUID]int // collection id -> product id -> index
	globals       map[uuid.UUID]*GlobalCollection
	globalMembers map[uuid.UUID]map[uuid.UUID]int
	products      map[uuid.UUID]curationState
	storeOwners   map[uuid.UUID]uuid.UUID // store id -> owner id
	ownerStores   map[uuid.UUID]uuid.UUID // owner id -> store id
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{
		collections:   make(map[uuid.UUID]*Collection),
		members:       make(map[uuid.UUID]map[uuid.UUID]int),
		globals:       make(map[uuid.UUID]*GlobalCollection),
		globalMembers: make(map[uuid.UUID]map[uuid.UUID]int),
		products:      make(map[uuid.UUID]curationState),
		storeOwners:   make(map[uuid.UUID]uuid.UUID),
		ownerStores:   make(map[uuid.UUID]uuid.UUID),
	}
}

func nextIndex(members map[uuid.UUID]int) int {
	max := -1
	for _, idx := range members {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

func appendMember(members map[uuid.UUID]map[uuid.UUID]int, parentID, productID uuid.UUID) (int, error) {
	if members[parentID] == nil {
		members[parentID] = make(map[uuid.UUID]int)
	}
	if _, exists := members[parentID][productID]; exists {
		return 0, ErrDuplicateMember
	}
	idx := nextIndex(members[parentID])
	members[parentID][productID] = idx
	return idx, nil
}

func (f *fakeCollectionRepo) CreateCollection(ctx context.Context, c *Collection) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := -1
	for _, other := range f.collections {
		if other.StoreID == c.StoreID && other.OrderIndex > max {
			max = other.OrderIndex
		}
	}
	c.OrderIndex = max + 1
	f.collections[c.ID] = c
	return c.OrderIndex, nil
}

func (f *fakeCollectionRepo) GetCollectionByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCollectionRepo) ListCollectionsByStore(ctx context.Context, storeID uuid.UUID) ([]*Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Collection
	for _, c := range f.collections {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCollectionRepo) AddProduct(ctx context.Context, collectionID, productID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return appendMember(f.members, collectionID, productID)
}

func (f *fakeCollectionRepo) RemoveProduct(ctx context.Context, collectionID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members[collectionID], productID)
	return nil
}

func (f *fakeCollectionRepo) ListProducts(ctx context.Context, collectionID uuid.UUID) ([]*Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Member
	for pid, idx := range f.members[collectionID] {
		out = append(out, &Member{ProductID: pid, OrderIndex: idx})
	}
	return out, nil
}

func (f *fakeCollectionRepo) GetGlobalCollectionByID(ctx context.Context, id uuid.UUID) (*GlobalCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.globals[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeCollectionRepo) ListGlobalCollections(ctx context.Context) ([]*GlobalCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*GlobalCollection
	for _, g := range f.globals {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeCollectionRepo) AddGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return appendMember(f.globalMembers, globalCollectionID, productID)
}

func (f *fakeCollectionRepo) RemoveGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.globalMembers[globalCollectionID], productID)
	return nil
}

func (f *fakeCollectionRepo) ListGlobalProducts(ctx context.Context, globalCollectionID uuid.UUID) ([]*Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Member
	for pid, idx := range f.globalMembers[globalCollectionID] {
		out = append(out, &Member{ProductID: pid, OrderIndex: idx})
	}
	return out, nil
}

func (f *fakeCollectionRepo) GetProductCurationState(ctx context.Context, productID uuid.UUID) (uuid.UUID, bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return uuid.Nil, false, "", ErrNotFound
	}
	return p.storeID, p.isPromoted, p.status, nil
}

func (f *fakeCollectionRepo) GetStoreOwner(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.storeOwners[storeID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return owner, nil
}

func (f *fakeCollectionRepo) GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	storeID, ok := f.ownerStores[ownerID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return storeID, nil
}

func (f *fakeCollectionRepo) seedStore() (ownerID, storeID uuid.UUID) {
	ownerID = uuid.New()
	storeID = uuid.New()
	f.storeOwners[storeID] = ownerID
	f.ownerStores[ownerID] = storeID
	return ownerID, storeID
}

func (f *fakeCollectionRepo) seedProduct(storeID uuid.UUID, isPromoted bool, status string) uuid.UUID {
	id := uuid.New()
	f.products[id] = curationState{storeID: storeID, isPromoted: isPromoted, status: status}
	return id
}

func (f *fakeCollectionRepo) seedCollection(storeID uuid.UUID) uuid.UUID {
	c := &Collection{ID: uuid.New(), StoreID: storeID, Title: "Featured"}
	f.collections[c.ID] = c
	return c.ID
}

func TestAddProductAssignsSequentialIndices(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)

	for want := 0; want < 3; want++ {
		pid := repo.seedProduct(storeID, false, "active")
		added, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
		require.NoError(t, err)
		require.Equal(t, want, added.OrderIndex)
	}
}

func TestConcurrentAppendsGetDistinctIndices(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)

	const n = 20
	products := make([]uuid.UUID, n)
	for i := range products {
		products[i] = repo.seedProduct(storeID, false, "active")
	}

	var wg sync.WaitGroup
	for _, pid := range products {
		wg.Add(1)
		go func(pid uuid.UUID) {
			defer wg.Done()
			_, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
			require.NoError(t, err)
		}(pid)
	}
	wg.Wait()

	members, err := svc.ListProducts(context.Background(), collectionID.String())
	require.NoError(t, err)
	require.Len(t, members, n)
	seen := make(map[int]bool, n)
	for _, m := range members {
		require.GreaterOrEqual(t, m.OrderIndex, 0)
		require.Less(t, m.OrderIndex, n)
		require.False(t, seen[m.OrderIndex], "index %d assigned twice", m.OrderIndex)
		seen[m.OrderIndex] = true
	}
}

func TestAddProductRejectsDuplicate(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)
	pid := repo.seedProduct(storeID, false, "active")

	_, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
	require.NoError(t, err)

	_, err = svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
	require.ErrorIs(t, err, ErrDuplicateMember)

	// still a duplicate on retry until removed
	_, err = svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
	require.ErrorIs(t, err, ErrDuplicateMember)

	require.NoError(t, svc.RemoveProduct(context.Background(), ownerID, collectionID.String(), pid.String()))
	_, err = svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pid.String()})
	require.NoError(t, err)
}

func TestRemoveProductLeavesGap(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)

	pids := make([]uuid.UUID, 3)
	for i := range pids {
		pids[i] = repo.seedProduct(storeID, false, "active")
		_, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: pids[i].String()})
		require.NoError(t, err)
	}

	require.NoError(t, svc.RemoveProduct(context.Background(), ownerID, collectionID.String(), pids[1].String()))

	members, err := svc.ListProducts(context.Background(), collectionID.String())
	require.NoError(t, err)
	require.Len(t, members, 2)
	indices := make(map[int]bool)
	for _, m := range members {
		indices[m.OrderIndex] = true
	}
	require.True(t, indices[0])
	require.True(t, indices[2], "surviving indices must not be renumbered")

	// the next append goes after the highest survivor
	extra := repo.seedProduct(storeID, false, "active")
	added, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: extra.String()})
	require.NoError(t, err)
	require.Equal(t, 3, added.OrderIndex)
}

func TestAddProductForbiddenAcrossStores(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)

	_, otherStoreID := repo.seedStore()
	foreign := repo.seedProduct(otherStoreID, false, "active")

	_, err := svc.AddProduct(context.Background(), ownerID, collectionID.String(), AddProductRequest{ProductID: foreign.String()})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAddProductForbiddenForNonOwner(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	_, storeID := repo.seedStore()
	collectionID := repo.seedCollection(storeID)
	pid := repo.seedProduct(storeID, false, "active")

	stranger, _ := repo.seedStore()
	_, err := svc.AddProduct(context.Background(), stranger, collectionID.String(), AddProductRequest{ProductID: pid.String()})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateCollectionOrdersUnderStore(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, _ := repo.seedStore()

	for want := 0; want < 2; want++ {
		c, err := svc.CreateCollection(context.Background(), ownerID, CreateCollectionRequest{Title: "Featured"})
		require.NoError(t, err)
		require.Equal(t, want, c.OrderIndex)
	}

	// a user without a store has nothing to curate
	_, err := svc.CreateCollection(context.Background(), uuid.New(), CreateCollectionRequest{Title: "Featured"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateCollection(context.Background(), ownerID, CreateCollectionRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestAddGlobalProductRequiresPromotedActive(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	g := &GlobalCollection{ID: uuid.New(), Title: "Trending", IsActive: true}
	repo.globals[g.ID] = g

	notPromoted := repo.seedProduct(storeID, false, "active")
	_, err := svc.AddGlobalProduct(context.Background(), ownerID, g.ID.String(), AddProductRequest{ProductID: notPromoted.String()})
	require.ErrorIs(t, err, ErrNotEligible)

	promotedDraft := repo.seedProduct(storeID, true, "draft")
	_, err = svc.AddGlobalProduct(context.Background(), ownerID, g.ID.String(), AddProductRequest{ProductID: promotedDraft.String()})
	require.ErrorIs(t, err, ErrNotEligible)

	eligible := repo.seedProduct(storeID, true, "active")
	added, err := svc.AddGlobalProduct(context.Background(), ownerID, g.ID.String(), AddProductRequest{ProductID: eligible.String()})
	require.NoError(t, err)
	require.Equal(t, 0, added.OrderIndex)
}

func TestAddGlobalProductForbiddenForNonOwner(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	_, storeID := repo.seedStore()
	g := &GlobalCollection{ID: uuid.New(), Title: "Trending", IsActive: true}
	repo.globals[g.ID] = g
	pid := repo.seedProduct(storeID, true, "active")

	stranger, _ := repo.seedStore()
	_, err := svc.AddGlobalProduct(context.Background(), stranger, g.ID.String(), AddProductRequest{ProductID: pid.String()})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAddGlobalProductInactiveCollection(t *testing.T) {
	repo := newFakeCollectionRepo()
	svc := NewService(repo)
	ownerID, storeID := repo.seedStore()
	g := &GlobalCollection{ID: uuid.New(), Title: "Retired", IsActive: false}
	repo.globals[g.ID] = g
	pid := repo.seedProduct(storeID, true, "active")

	_, err := svc.AddGlobalProduct(context.Background(), ownerID, g.ID.String(), AddProductRequest{ProductID: pid.String()})
	require.ErrorIs(t, err, ErrNotFound)
}
