package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vortex/internal/cart"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/middleware"
)

// WarningNotSaved is shown when a cart change could not be written to session storage.
const WarningNotSaved = "Your cart could not be saved. Changes may be lost if you leave the site."

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	carts     Carts
	catalog   Catalog
	validator Validator
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts Carts, catalog Catalog, validator Validator) *CartHandler {
	return &CartHandler{
		carts:     carts,
		catalog:   catalog,
		validator: validator,
	}
}

type cartResponse struct {
	domain.CartSummary
	Warning string `json:"warning,omitempty"`
}

type cartLineRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity" validate:"omitempty,max=99"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}
	h.respond(w, r, store, cart.PersistResult{})
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cartLineRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		handler.ErrorResponse(w, r, domain.ErrProductRequired)
		return
	}
	if err := h.validator.Struct("cart.add", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = product.DefaultSize()
	}
	if !product.HasSize(size) {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "cart.add", "Size %s is not available for %s", size, product.Name))
		return
	}
	if !product.InStock {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "cart.add", "%s is out of stock", product.Name))
		return
	}

	res, err := store.AddItem(ctx, *product, size, quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(ctx).Debug("item added to cart",
		"product_id", product.ID,
		"size", size,
		"quantity", quantity,
	)
	h.respond(w, r, store, res)
}

// Update handles POST /cart/update
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || req.Quantity == nil {
		handler.BadRequestResponse(w, r, "Product and quantity are required")
		return
	}
	if err := h.validator.Struct("cart.update", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}

	res, err := store.UpdateQuantity(r.Context(), strings.TrimSpace(req.ProductID), req.Size, *req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, store, res)
}

// Remove handles POST /cart/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		handler.ErrorResponse(w, r, domain.ErrProductRequired)
		return
	}

	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}

	res := store.RemoveItem(r.Context(), strings.TrimSpace(req.ProductID), req.Size)
	h.respond(w, r, store, res)
}

// Clear handles POST /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}
	h.respond(w, r, store, store.Clear(r.Context()))
}

// respond writes the cart as it stands after a mutation. A failed save is
// not an error for the shopper; the change holds for this session.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, store *cart.Store, res cart.PersistResult) {
	body := cartResponse{CartSummary: store.Snapshot().Summary()}
	if res.Degraded() {
		body.Warning = WarningNotSaved
	}
	handler.WriteJSON(w, http.StatusOK, body)
}
