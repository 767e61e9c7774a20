package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
)

// ProductHandler handles the catalog routes
type ProductHandler struct {
	catalog Catalog
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /products with an optional ?category= filter
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if raw := r.URL.Query().Get("category"); strings.TrimSpace(raw) != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		category = c
	}

	products, err := h.catalog.ListProducts(r.Context(), category)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	handler.WriteJSON(w, http.StatusOK, products)
}

// Detail handles GET /products/{id}
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		handler.NotFoundResponse(w, r)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, product)
}
