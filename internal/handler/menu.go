package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
)

// Menu returns the customer-facing catalog: available items only.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context(), true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Categories returns the display categories in sort order.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.menu.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// AdminMenu returns the full catalog including unavailable items.
func (h *Handler) AdminMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context(), false)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateMenuItem adds a catalog entry. An omitted ID is generated.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item menu.Item
	if err := decode(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Name == "" || item.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "name and category_id are required")
		return
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := h.menu.Create(r.Context(), &item); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem replaces a catalog entry's editable fields.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item menu.Item
	if err := decode(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := h.menu.Update(r.Context(), &item); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMenuItem removes a catalog entry.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// SetAvailability toggles availability for one or many items at once,
// the out-of-stock switch on the dashboard.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs       []string `json:"ids"`
		Available bool     `json:"available"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}
	if err := h.menu.SetAvailability(r.Context(), req.IDs, req.Available); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": len(req.IDs), "available": req.Available})
}

// CreateCategory adds a display category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c menu.Category
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := h.menu.CreateCategory(r.Context(), &c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCategory removes a display category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
