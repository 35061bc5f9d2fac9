package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a referenced store, product, or media
	// row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the store the
	// operation targets.
	ErrForbidden = errors.New("forbidden")
	// ErrStoreExists is returned when the caller already owns a store.
	ErrStoreExists = errors.New("user already owns a store")
)

// ProductStatus represents the listing state of a product.
type ProductStatus string

const (
	StatusDraft    ProductStatus = "draft"
	StatusActive   ProductStatus = "active"
	StatusArchived ProductStatus = "archived"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// Store is a seller's shop. Each user owns at most one store.
type Store struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a listing owned by a store. Promotion fields are mutated only by
// the promotion module.
type Product struct {
	ID                uuid.UUID     `json:"id"`
	StoreID           uuid.UUID     `json:"store_id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Price             float64       `json:"price"`
	Status            ProductStatus `json:"status"`
	IsPromoted        bool          `json:"is_promoted"`
	PromotedStartDate *time.Time    `json:"promoted_start_date,omitempty"`
	PromotedEndDate   *time.Time    `json:"promoted_end_date,omitempty"`
	IsTrending        bool          `json:"is_trending"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ProductMedia is one image or video attached to a product, positioned by
// order_index within the product's media list.
type ProductMedia struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	MediaURL   string    `json:"media_url"`
	OrderIndex int       `json:"order_index"`
	IsCover    bool      `json:"is_cover"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cover picks the display cover from a product's media list: the member
// flagged is_cover, else the one with the lowest order_index.
func Cover(media []*ProductMedia) *ProductMedia {
	var lowest *ProductMedia
	for _, m := range media {
		if m.IsCover {
			return m
		}
		if lowest == nil || m.OrderIndex < lowest.OrderIndex {
			lowest = m
		}
	}
	return lowest
}

// CreateStoreRequest is the payload for opening a store.
type CreateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateProductRequest is the payload for listing a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Status      string  `json:"status,omitempty"` // defaults to draft
}

// AddMediaRequest is the payload for attaching media to a product.
type AddMediaRequest struct {
	MediaURL string `json:"media_url"`
	IsCover  bool   `json:"is_cover,omitempty"`
}

// MediaList is the response for a product's media: members in list order plus
// the resolved cover.
type MediaList struct {
	Items []*ProductMedia `json:"items"`
	Cover *ProductMedia   `json:"cover,omitempty"`
}
