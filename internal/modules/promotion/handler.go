package promotion

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
	"github.com/lusakadev/soko-backend/internal/modules/credits"
)

// Handler exposes promotion HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth auth.Middleware) {
	router.Get("/api/v1/promotions/pricing", h.getPricing)                          // GET  /api/v1/promotions/pricing
	router.With(requireAuth).Post("/api/v1/products/{id}/promote", h.promoteProduct) // POST /api/v1/products/{id}/promote
}

func (h *Handler) getPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.service.GetPricing(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, pricing)
}

func (h *Handler) promoteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req PromoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.PromoteProduct(r.Context(), userID, chi.URLParam(r, "id"), req.Days)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, ErrForbidden):
			code = http.StatusForbidden
		case errors.Is(err, ErrInvalidDays):
			code = http.StatusBadRequest
		case errors.Is(err, credits.ErrInsufficientCredits):
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, result)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
