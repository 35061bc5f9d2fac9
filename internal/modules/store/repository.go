package store

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for stores, products, and product media.
type Repository interface {
	CreateStore(ctx context.Context, s *Store) error
	GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// GetStoreByOwner returns the store owned by ownerID, or ErrNotFound.
	GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*Store, error)

	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error)

	// AddMedia appends media to the product's list, assigning the next
	// order_index atomically, and returns the assigned index.
	AddMedia(ctx context.Context, m *ProductMedia) (int, error)
	RemoveMedia(ctx context.Context, productID, mediaID uuid.UUID) error
	ListMedia(ctx context.Context, productID uuid.UUID) ([]*ProductMedia, error)
}
