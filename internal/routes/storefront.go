package routes

import (
	"github.com/dukerupert/vortex/internal/router"
)

// RegisterStorefrontRoutes registers all shopper-facing routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	var strict []router.Middleware
	if deps.StrictLimit != nil {
		strict = append(strict, deps.StrictLimit)
	}

	// Catalog
	r.Get("/products", deps.ProductHandler.List)
	r.Get("/products/{id}", deps.ProductHandler.Detail)
	r.Get("/products/{id}/reviews", deps.ReviewHandler.List)
	r.Post("/products/{id}/reviews", deps.ReviewHandler.Create)
	r.Put("/reviews/{id}", deps.ReviewHandler.Update)
	r.Delete("/reviews/{id}", deps.ReviewHandler.Delete)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/add", deps.CartHandler.Add)
	r.Post("/cart/update", deps.CartHandler.Update)
	r.Post("/cart/remove", deps.CartHandler.Remove)
	r.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout flow
	r.Get("/checkout", deps.CheckoutHandler.Page)
	r.Post("/checkout", deps.CheckoutHandler.Submit, strict...)
	r.Get("/checkout/success", deps.CheckoutHandler.Success)

	// ServeMux wildcards must span a whole segment, so each gateway gets its
	// own literal callback path.
	for _, m := range deps.PaymentMethods {
		r.Get("/checkout/"+string(m)+"-callback", deps.CallbackHandler.Callback(m))
	}

	// Authentication
	r.Post("/auth/signup", deps.AuthHandler.Signup, strict...)
	r.Post("/auth/login", deps.AuthHandler.Login, strict...)
	r.Post("/auth/logout", deps.AuthHandler.Logout)

	r.Post("/newsletter/subscribe", deps.NewsletterHandler.ServeHTTP)
}
