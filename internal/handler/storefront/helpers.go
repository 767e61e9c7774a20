// Package storefront serves the shopper-facing JSON endpoints: catalog,
// cart, checkout, payment callbacks, reviews, newsletter and account.
package storefront

import (
	"context"
	"net/http"

	"github.com/dukerupert/vortex/internal/cart"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
)

// Catalog reads products from the catalog service.
type Catalog interface {
	ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Carts resolves a session to its cart.
type Carts interface {
	Cart(ctx context.Context, sessionID string) (*cart.Store, error)
}

// Reviews manages product reviews in the review service.
type Reviews interface {
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	CreateReview(ctx context.Context, productID string, review domain.NewReview) (*domain.Review, error)
	UpdateReview(ctx context.Context, id string, update domain.ReviewUpdate) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// Newsletter subscribes shoppers to the mailing list.
type Newsletter interface {
	Subscribe(ctx context.Context, email string) error
}

// Auth signs shoppers in and out. Implementations keep the bearer token in
// the session; handlers never send it to the browser.
type Auth interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Validator checks a request body against its validate tags.
type Validator interface {
	Struct(op string, s any) error
}

// sessionCart loads the cart for the request's session. It writes the error
// response itself and reports false when no cart is available.
func sessionCart(w http.ResponseWriter, r *http.Request, carts Carts) (*cart.Store, bool) {
	sessionID := domain.SessionIDFromContext(r.Context())
	if sessionID == "" {
		handler.InternalErrorResponse(w, r, domain.Errorf(domain.EINTERNAL, "storefront.session", "request has no session"))
		return nil, false
	}

	store, err := carts.Cart(r.Context(), sessionID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return nil, false
	}
	return store, true
}

// messageResponse is the body of endpoints that only confirm an action.
type messageResponse struct {
	Message string `json:"message"`
}
