// Package payment interprets the redirects payment gateways send shoppers
// back with. Each domain.PaymentMethod has exactly one Gateway.
package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dukerupert/vortex/internal"
	"github.com/dukerupert/vortex/internal/domain"
)

// Shopper-facing callback messages.
const (
	MessageSuccess   = "Payment successful! Your order has been confirmed."
	MessageVerifying = "Verifying payment status..."
)

// Gateway interprets one payment provider's callback parameters.
// Interpretation is pure and happens once; it never polls.
type Gateway interface {
	// Method is the payment method this gateway serves.
	Method() domain.PaymentMethod

	// Interpret maps callback query parameters to a result.
	Interpret(query url.Values) domain.CallbackResult

	// InterpretStatus maps a transaction ID and raw status using the same
	// rules as Interpret.
	InterpretStatus(transactionID, status string) domain.CallbackResult
}

// SelfVerifier is implemented by gateways that can look up a pending
// transaction with the provider directly.
type SelfVerifier interface {
	Verify(ctx context.Context, transactionID string) (domain.CallbackResult, error)
}

// OrderVerifier asks the order service for an order's payment status.
type OrderVerifier interface {
	OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error)
}

// Resolve interprets a callback and, when the result is still loading and a
// transaction ID is known, makes one follow-up status lookup. The lookup
// prefers the gateway itself and falls back to the order service. A lookup
// failure returns the loading result together with the error.
func Resolve(ctx context.Context, gw Gateway, query url.Values, orders OrderVerifier) (domain.CallbackResult, error) {
	result := gw.Interpret(query)
	if result.Status != domain.CallbackLoading || result.TransactionID == "" {
		return result, nil
	}

	if sv, ok := gw.(SelfVerifier); ok {
		verified, err := sv.Verify(ctx, result.TransactionID)
		if err != nil {
			return result, err
		}
		return verified, nil
	}

	if orders == nil {
		return result, nil
	}

	status, err := orders.OrderStatus(ctx, result.TransactionID)
	if err != nil {
		return result, err
	}
	if status.Status == "" || isPending(status.Status) {
		return result, nil
	}
	return gw.InterpretStatus(result.TransactionID, status.Status), nil
}

// isPending reports order service statuses that mean "not decided yet".
func isPending(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending", "processing", "awaiting_payment":
		return true
	}
	return false
}

// Registry holds the enabled gateways in display order.
type Registry struct {
	gateways map[domain.PaymentMethod]Gateway
	order    []domain.PaymentMethod
}

// NewRegistry creates a registry from gateways. Later duplicates replace
// earlier ones but keep the first position.
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[domain.PaymentMethod]Gateway, len(gateways))}
	for _, gw := range gateways {
		m := gw.Method()
		if _, exists := r.gateways[m]; !exists {
			r.order = append(r.order, m)
		}
		r.gateways[m] = gw
	}
	return r
}

// NewRegistryFromConfig builds the gateways named in cfg.Methods.
func NewRegistryFromConfig(cfg internal.PaymentConfig) (*Registry, error) {
	var gateways []Gateway
	for _, name := range cfg.Methods {
		switch domain.PaymentMethod(name) {
		case domain.PaymentMethodVerge:
			gateways = append(gateways, NewVerge(cfg.Verge.SuccessCode))
		case domain.PaymentMethodStripe:
			gateways = append(gateways, NewStripe(cfg.Stripe.SecretKey))
		default:
			return nil, fmt.Errorf("unknown payment method %q", name)
		}
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("no payment methods enabled")
	}
	return NewRegistry(gateways...), nil
}

// Get returns the gateway for m if it is enabled.
func (r *Registry) Get(m domain.PaymentMethod) (Gateway, bool) {
	gw, ok := r.gateways[m]
	return gw, ok
}

// Accepts reports whether m is enabled.
func (r *Registry) Accepts(m domain.PaymentMethod) bool {
	_, ok := r.gateways[m]
	return ok
}

// Methods returns the enabled methods in display order.
func (r *Registry) Methods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, len(r.order))
	copy(out, r.order)
	return out
}

// Default returns the first enabled method.
func (r *Registry) Default() domain.PaymentMethod {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

// firstParam returns the first non-empty value among the given parameter names.
func firstParam(query url.Values, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(query.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
