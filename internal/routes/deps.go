package routes

import (
	"net/http"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler/storefront"
	"github.com/dukerupert/vortex/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Catalog
	ProductHandler *storefront.ProductHandler
	ReviewHandler  *storefront.ReviewHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout and the gateway return pages, one per enabled payment method
	CheckoutHandler *storefront.CheckoutHandler
	CallbackHandler *storefront.CallbackHandler
	PaymentMethods  []domain.PaymentMethod

	// Account (signup, login, logout)
	AuthHandler *storefront.AuthHandler

	NewsletterHandler http.Handler

	// StrictLimit guards order submission and sign-in. Optional.
	StrictLimit router.Middleware
}

// SystemDeps contains dependencies for operational endpoints
type SystemDeps struct {
	Metrics http.Handler
	// Ready reports whether the service can take traffic. Nil means always ready.
	Ready func() error
}
