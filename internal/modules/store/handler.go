package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
)

// Handler exposes store and product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth auth.Middleware) {
	router.Route("/api/v1/stores", func(r chi.Router) {
		r.With(requireAuth).Post("/", h.createStore) // POST /api/v1/stores
		r.Get("/{id}", h.getStore)                   // GET  /api/v1/stores/{id}
		r.Get("/{id}/products", h.listProducts)      // GET  /api/v1/stores/{id}/products
	})
	router.Route("/api/v1/products", func(r chi.Router) {
		r.With(requireAuth).Post("/", h.createProduct)                       // POST   /api/v1/products
		r.Get("/{id}", h.getProduct)                                         // GET    /api/v1/products/{id}
		r.Get("/{id}/media", h.listMedia)                                    // GET    /api/v1/products/{id}/media
		r.With(requireAuth).Post("/{id}/media", h.addMedia)                  // POST   /api/v1/products/{id}/media
		r.With(requireAuth).Delete("/{id}/media/{media_id}", h.removeMedia)  // DELETE /api/v1/products/{id}/media/{media_id}
	})
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := h.service.CreateStore(r.Context(), callerID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, st)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), callerID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListStoreProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) addMedia(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req AddMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.AddMedia(r.Context(), callerID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) removeMedia(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	err := h.service.RemoveMedia(r.Context(), callerID, chi.URLParam(r, "id"), chi.URLParam(r, "media_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "media removed"})
}

func (h *Handler) listMedia(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMedia(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrStoreExists):
		code = http.StatusConflict
	case strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "negative"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
