package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines store and product business logic.
type Service interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*Store, error)
	GetStore(ctx context.Context, id string) (*Store, error)

	CreateProduct(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListStoreProducts(ctx context.Context, storeID string) ([]*Product, error)

	AddMedia(ctx context.Context, ownerID uuid.UUID, productID string, req AddMediaRequest) (*ProductMedia, error)
	RemoveMedia(ctx context.Context, ownerID uuid.UUID, productID, mediaID string) error
	ListMedia(ctx context.Context, productID string) (*MediaList, error)
}

type service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateStore(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*Store, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	st := &Store{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.CreateStore(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetStoreByID(ctx, sid)
}

func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	status := ProductStatus(req.Status)
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid product status %q", req.Status)
	}

	st, err := s.repo.GetStoreByOwner(ctx, ownerID)
	if err != nil {
		return nil, ErrForbidden
	}

	p := &Product{
		ID:          uuid.New(),
		StoreID:     st.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Status:      status,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetProductByID(ctx, pid)
}

func (s *service) ListStoreProducts(ctx context.Context, storeID string) ([]*Product, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListProductsByStore(ctx, sid)
}

func (s *service) AddMedia(ctx context.Context, ownerID uuid.UUID, productID string, req AddMediaRequest) (*ProductMedia, error) {
	if req.MediaURL == "" {
		return nil, fmt.Errorf("media_url is required")
	}
	p, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	m := &ProductMedia{
		ID:        uuid.New(),
		ProductID: p.ID,
		MediaURL:  req.MediaURL,
		IsCover:   req.IsCover,
	}
	index, err := s.repo.AddMedia(ctx, m)
	if err != nil {
		return nil, err
	}
	m.OrderIndex = index
	return m, nil
}

func (s *service) RemoveMedia(ctx context.Context, ownerID uuid.UUID, productID, mediaID string) error {
	p, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return err
	}
	mid, err := uuid.Parse(mediaID)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.RemoveMedia(ctx, p.ID, mid)
}

func (s *service) ListMedia(ctx context.Context, productID string) (*MediaList, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	media, err := s.repo.ListMedia(ctx, pid)
	if err != nil {
		return nil, err
	}
	return &MediaList{Items: media, Cover: Cover(media)}, nil
}

// ownedProduct resolves productID and verifies the caller owns its store.
func (s *service) ownedProduct(ctx context.Context, ownerID uuid.UUID, productID string) (*Product, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := s.repo.GetProductByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	st, err := s.repo.GetStoreByOwner(ctx, ownerID)
	if err != nil || st.ID != p.StoreID {
		return nil, ErrForbidden
	}
	return p, nil
}
