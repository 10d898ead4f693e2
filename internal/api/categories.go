package api

import (
	"context"
	"net/http"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// Catalog is the category catalog as the handlers see it.
type Catalog interface {
	Categories() ([]allocation.Category, error)
	Reload(ctx context.Context) ([]allocation.Category, error)
}

type CategoriesHandler struct {
	catalog Catalog
}

func NewCategoriesHandler(c Catalog) *CategoriesHandler {
	return &CategoriesHandler{catalog: c}
}

// List returns the catalog in allocation order.
// GET /api/v1/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories()
	if err != nil {
		writeEngineError(w, "categories", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Reload re-reads the catalog from its source.
// POST /api/v1/admin/catalog/reload
func (h *CategoriesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Reload(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "reloaded",
		"categories": len(cats),
	})
}
