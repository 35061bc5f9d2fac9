package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, subject string) string {
	t.Helper()
	claims := jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestRequireAuthInjectsUserID(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	var got uuid.UUID
	var ok bool
	handler := RequireAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, userID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	require.Equal(t, userID, got)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	secret := []byte("test-secret")

	handler := RequireAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for rejected requests")
	}))

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"not bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic abc")
		}},
		{"wrong secret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), uuid.NewString()))
		}},
		{"expired", func(r *http.Request) {
			claims := jwt.StandardClaims{Subject: uuid.NewString(), ExpiresAt: time.Now().Add(-time.Hour).Unix()}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		}},
		{"non-uuid subject", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, secret, "admin"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestUserIDMissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserID(req.Context())
	require.False(t, ok)
}
