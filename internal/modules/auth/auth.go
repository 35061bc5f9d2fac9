package auth

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type contextKey struct{}

// WithUserID returns a context carrying the verified caller identity.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserID extracts the verified caller identity from the request context. Core
// operations read the caller from here and never from ambient state.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
