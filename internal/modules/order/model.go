package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrForbidden is returned when the caller does not own the store the
	// order belongs to.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStatus is returned when the requested label is not one of
	// the known statuses.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned when the requested status is a known
	// label but not a legal next state for the order.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the allowed status state machine. Cancellation is
// reachable from every non-terminal state.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is one of the six known statuses.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s.Valid() && len(validTransitions[s]) == 0
}

// CanTransition returns true if an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a buyer's purchase from a single store. It is created once at
// checkout and afterwards mutated only through AdvanceStatus.
type Order struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Status    Status    `json:"status"`
	Total     float64   `json:"total"`
	Items     []*Item   `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a single line item: a snapshot of the product's price and quantity
// at purchase time. Immutable after creation.
type Item struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem describes one product the buyer wants at checkout.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for checkout. All items must belong to the
// same store.
type PlaceOrderRequest struct {
	Items []CartItem `json:"items"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
