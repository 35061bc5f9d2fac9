package collection

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for store and global collections. Appends
// assign strictly increasing per-parent order_index values atomically;
// removals never renumber.
type Repository interface {
	// CreateCollection persists the collection, assigning its position in
	// the store's collection order, and returns the assigned index.
	CreateCollection(ctx context.Context, c *Collection) (int, error)
	GetCollectionByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	ListCollectionsByStore(ctx context.Context, storeID uuid.UUID) ([]*Collection, error)

	AddProduct(ctx context.Context, collectionID, productID uuid.UUID) (int, error)
	RemoveProduct(ctx context.Context, collectionID, productID uuid.UUID) error
	ListProducts(ctx context.Context, collectionID uuid.UUID) ([]*Member, error)

	GetGlobalCollectionByID(ctx context.Context, id uuid.UUID) (*GlobalCollection, error)
	ListGlobalCollections(ctx context.Context) ([]*GlobalCollection, error)
	AddGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) (int, error)
	RemoveGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) error
	ListGlobalProducts(ctx context.Context, globalCollectionID uuid.UUID) ([]*Member, error)

	// GetProductCurationState fetches the fields curation checks need.
	GetProductCurationState(ctx context.Context, productID uuid.UUID) (storeID uuid.UUID, isPromoted bool, status string, err error)

	// GetStoreOwner resolves a store's owning user.
	GetStoreOwner(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error)

	// GetStoreByOwner resolves the store owned by ownerID, or ErrNotFound.
	GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error)
}
