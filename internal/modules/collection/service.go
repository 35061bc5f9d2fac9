package collection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines collection curation business logic.
type Service interface {
	// CreateCollection creates an ordered collection under the caller's
	// store.
	CreateCollection(ctx context.Context, ownerID uuid.UUID, req CreateCollectionRequest) (*Collection, error)
	ListStoreCollections(ctx context.Context, storeID string) ([]*Collection, error)

	// AddProduct appends a product from the caller's store to one of the
	// caller's collections and returns the assigned position.
	AddProduct(ctx context.Context, callerID uuid.UUID, collectionID string, req AddProductRequest) (*MemberAdded, error)
	RemoveProduct(ctx context.Context, callerID uuid.UUID, collectionID, productID string) error
	ListProducts(ctx context.Context, collectionID string) ([]*Member, error)

	// AddGlobalProduct features one of the caller's products in a global
	// collection. The product must be promoted and active.
	AddGlobalProduct(ctx context.Context, callerID uuid.UUID, globalCollectionID string, req AddProductRequest) (*MemberAdded, error)
	RemoveGlobalProduct(ctx context.Context, callerID uuid.UUID, globalCollectionID, productID string) error
	ListGlobalCollections(ctx context.Context) ([]*GlobalCollection, error)
	ListGlobalProducts(ctx context.Context, globalCollectionID string) ([]*Member, error)
}

type service struct {
	repo Repository
}

// NewService creates a new collection service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCollection(ctx context.Context, ownerID uuid.UUID, req CreateCollectionRequest) (*Collection, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	storeID, err := s.callerStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	c := &Collection{
		ID:      uuid.New(),
		StoreID: storeID,
		Title:   req.Title,
	}
	index, err := s.repo.CreateCollection(ctx, c)
	if err != nil {
		return nil, err
	}
	c.OrderIndex = index
	return c, nil
}

func (s *service) ListStoreCollections(ctx context.Context, storeID string) ([]*Collection, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListCollectionsByStore(ctx, sid)
}

func (s *service) AddProduct(ctx context.Context, callerID uuid.UUID, collectionID string, req AddProductRequest) (*MemberAdded, error) {
	c, err := s.ownedCollection(ctx, callerID, collectionID)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrNotFound
	}
	productStoreID, _, _, err := s.repo.GetProductCurationState(ctx, pid)
	if err != nil {
		return nil, err
	}
	if productStoreID != c.StoreID {
		return nil, ErrForbidden
	}
	index, err := s.repo.AddProduct(ctx, c.ID, pid)
	if err != nil {
		return nil, err
	}
	return &MemberAdded{ProductID: pid, OrderIndex: index}, nil
}

func (s *service) RemoveProduct(ctx context.Context, callerID uuid.UUID, collectionID, productID string) error {
	c, err := s.ownedCollection(ctx, callerID, collectionID)
	if err != nil {
		return err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.RemoveProduct(ctx, c.ID, pid)
}

func (s *service) ListProducts(ctx context.Context, collectionID string) ([]*Member, error) {
	cid, err := uuid.Parse(collectionID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListProducts(ctx, cid)
}

func (s *service) AddGlobalProduct(ctx context.Context, callerID uuid.UUID, globalCollectionID string, req AddProductRequest) (*MemberAdded, error) {
	gid, err := uuid.Parse(globalCollectionID)
	if err != nil {
		return nil, ErrNotFound
	}
	g, err := s.repo.GetGlobalCollectionByID(ctx, gid)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, ErrNotFound
	}

	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrNotFound
	}
	storeID, isPromoted, status, err := s.repo.GetProductCurationState(ctx, pid)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.repo.GetStoreOwner(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}
	if !isPromoted || status != "active" {
		return nil, ErrNotEligible
	}

	index, err := s.repo.AddGlobalProduct(ctx, g.ID, pid)
	if err != nil {
		return nil, err
	}
	return &MemberAdded{ProductID: pid, OrderIndex: index}, nil
}

func (s *service) RemoveGlobalProduct(ctx context.Context, callerID uuid.UUID, globalCollectionID, productID string) error {
	gid, err := uuid.Parse(globalCollectionID)
	if err != nil {
		return ErrNotFound
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrNotFound
	}
	storeID, _, _, err := s.repo.GetProductCurationState(ctx, pid)
	if err != nil {
		return err
	}
	ownerID, err := s.repo.GetStoreOwner(ctx, storeID)
	if err != nil {
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return s.repo.RemoveGlobalProduct(ctx, gid, pid)
}

func (s *service) ListGlobalCollections(ctx context.Context) ([]*GlobalCollection, error) {
	return s.repo.ListGlobalCollections(ctx)
}

func (s *service) ListGlobalProducts(ctx context.Context, globalCollectionID string) ([]*Member, error) {
	gid, err := uuid.Parse(globalCollectionID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListGlobalProducts(ctx, gid)
}

// callerStore resolves the caller's store id, or ErrForbidden when the caller
// owns none.
func (s *service) callerStore(ctx context.Context, callerID uuid.UUID) (uuid.UUID, error) {
	// Collections hang off the owner's store; a user without a store has
	// nothing to curate.
	storeID, err := s.repo.GetStoreByOwner(ctx, callerID)
	if err != nil {
		return uuid.Nil, ErrForbidden
	}
	return storeID, nil
}

// ownedCollection resolves collectionID and verifies the caller owns its
// store.
func (s *service) ownedCollection(ctx context.Context, callerID uuid.UUID, collectionID string) (*Collection, error) {
	cid, err := uuid.Parse(collectionID)
	if err != nil {
		return nil, ErrNotFound
	}
	c, err := s.repo.GetCollectionByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.repo.GetStoreOwner(ctx, c.StoreID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}
	return c, nil
}
