package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when registering with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// User represents a registered account, buyer or seller alike. A user becomes
// a seller by creating a store.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
