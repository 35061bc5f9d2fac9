package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth auth.Middleware) {
	router.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.placeOrder)                     // POST  /api/v1/orders
		r.Get("/{id}", h.getOrder)                    // GET   /api/v1/orders/{id}
		r.Patch("/{id}/status", h.advanceStatus)      // PATCH /api/v1/orders/{id}/status
		r.Get("/mine", h.listBuyerOrders)             // GET   /api/v1/orders/mine
		r.Get("/store/{store_id}", h.listStoreOrders) // GET   /api/v1/orders/store/{store_id}?status=pending
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), buyerID, req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "not available") || strings.Contains(msg, "same store") {
			code = http.StatusUnprocessableEntity
		} else if strings.Contains(msg, "not found") {
			code = http.StatusNotFound
		} else if strings.Contains(msg, "invalid") || strings.Contains(msg, "at least one") || strings.Contains(msg, "quantity") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": msg})
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.AdvanceStatus(r.Context(), actingUserID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listBuyerOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	orders, err := h.service.ListBuyerOrders(r.Context(), buyerID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) listStoreOrders(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	status := r.URL.Query().Get("status")
	orders, err := h.service.ListStoreOrders(r.Context(), storeID, status)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrInvalidStatus):
		code = http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
