package collection

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lusakadev/soko-backend/internal/listindex"
)

var (
	// ErrNotFound is returned when a referenced collection or product does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the parent the
	// operation targets.
	ErrForbidden = errors.New("forbidden")
	// ErrNotEligible is returned when a product lacks the promoted+active
	// state required for global curation.
	ErrNotEligible = errors.New("product not eligible for global curation")
	// ErrDuplicateMember is returned when the product is already in the
	// collection. Retrying the same pair keeps failing until removed.
	ErrDuplicateMember = listindex.ErrDuplicateMember
)

// Collection is a seller-curated ordered list of products. Collections
// themselves form an ordered list under their store.
type Collection struct {
	ID         uuid.UUID `json:"id"`
	StoreID    uuid.UUID `json:"store_id"`
	Title      string    `json:"title"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Member is one product's position within a collection.
type Member struct {
	ProductID  uuid.UUID `json:"product_id"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// GlobalCollection is a platform-curated ordered list of promoted products.
type GlobalCollection struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCollectionRequest is the payload for creating a store collection.
type CreateCollectionRequest struct {
	Title string `json:"title"`
}

// AddProductRequest is the payload for appending a product to a collection.
type AddProductRequest struct {
	ProductID string `json:"product_id"`
}

// MemberAdded reports the index assigned to a newly appended member.
type MemberAdded struct {
	ProductID  uuid.UUID `json:"product_id"`
	OrderIndex int       `json:"order_index"`
}
