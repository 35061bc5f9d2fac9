package collection

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
)

// Handler exposes collection HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth auth.Middleware) {
	router.Route("/api/v1/collections", func(r chi.Router) {
		r.With(requireAuth).Post("/", h.createCollection)                             // POST   /api/v1/collections
		r.Get("/{id}/products", h.listProducts)                                       // GET    /api/v1/collections/{id}/products
		r.With(requireAuth).Post("/{id}/products", h.addProduct)                      // POST   /api/v1/collections/{id}/products
		r.With(requireAuth).Delete("/{id}/products/{product_id}", h.removeProduct)    // DELETE /api/v1/collections/{id}/products/{product_id}
	})
	router.Get("/api/v1/stores/{store_id}/collections", h.listStoreCollections) // GET /api/v1/stores/{store_id}/collections
	router.Route("/api/v1/global-collections", func(r chi.Router) {
		r.Get("/", h.listGlobalCollections)                                                 // GET    /api/v1/global-collections
		r.Get("/{id}/products", h.listGlobalProducts)                                       // GET    /api/v1/global-collections/{id}/products
		r.With(requireAuth).Post("/{id}/products", h.addGlobalProduct)                      // POST   /api/v1/global-collections/{id}/products
		r.With(requireAuth).Delete("/{id}/products/{product_id}", h.removeGlobalProduct)    // DELETE /api/v1/global-collections/{id}/products/{product_id}
	})
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCollection(r.Context(), callerID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listStoreCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListStoreCollections(r.Context(), chi.URLParam(r, "store_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, collections)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	added, err := h.service.AddProduct(r.Context(), callerID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, added)
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	err := h.service.RemoveProduct(r.Context(), callerID, chi.URLParam(r, "id"), chi.URLParam(r, "product_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "product removed"})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, members)
}

func (h *Handler) listGlobalCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListGlobalCollections(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, collections)
}

func (h *Handler) listGlobalProducts(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListGlobalProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, members)
}

func (h *Handler) addGlobalProduct(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	added, err := h.service.AddGlobalProduct(r.Context(), callerID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, added)
}

func (h *Handler) removeGlobalProduct(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	err := h.service.RemoveGlobalProduct(r.Context(), callerID, chi.URLParam(r, "id"), chi.URLParam(r, "product_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "product removed"})
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrDuplicateMember):
		code = http.StatusConflict
	case errors.Is(err, ErrNotEligible):
		code = http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "required"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
