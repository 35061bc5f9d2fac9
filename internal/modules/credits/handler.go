package credits

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
)

// Handler exposes credit ledger HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth auth.Middleware) {
	router.Route("/api/v1/credits", func(r chi.Router) {
		r.Get("/packages", h.listPackages)                        // GET  /api/v1/credits/packages
		r.With(requireAuth).Get("/balance", h.getBalance)         // GET  /api/v1/credits/balance
		r.With(requireAuth).Post("/purchase", h.purchase)         // POST /api/v1/credits/purchase
		r.With(requireAuth).Get("/transactions", h.listTransactions) // GET /api/v1/credits/transactions
	})
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	b, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.PurchaseCredits(r.Context(), userID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) listPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, packages)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	transactions, err := h.service.ListTransactions(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, transactions)
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidPackage):
		code = http.StatusBadRequest
	case errors.Is(err, ErrInsufficientCredits):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
