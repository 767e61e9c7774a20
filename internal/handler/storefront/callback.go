package storefront

import (
	"net/http"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/middleware"
	"github.com/dukerupert/vortex/internal/payment"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// CallbackHandler handles the return redirects from hosted payment pages.
type CallbackHandler struct {
	carts    Carts
	registry *payment.Registry
	orders   payment.OrderVerifier
	metrics  *telemetry.BusinessMetrics
}

// NewCallbackHandler creates a new callback handler. orders may be nil, in
// which case pending payments are reported as still verifying.
func NewCallbackHandler(carts Carts, registry *payment.Registry, orders payment.OrderVerifier, metrics *telemetry.BusinessMetrics) *CallbackHandler {
	return &CallbackHandler{
		carts:    carts,
		registry: registry,
		orders:   orders,
		metrics:  metrics,
	}
}

// Callback returns the handler for GET /checkout/{method}-callback.
func (h *CallbackHandler) Callback(method domain.PaymentMethod) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := middleware.GetLogger(ctx).With("gateway", string(method))

		gw, ok := h.registry.Get(method)
		if !ok {
			handler.NotFoundResponse(w, r)
			return
		}

		result, err := payment.Resolve(ctx, gw, r.URL.Query(), h.orders)
		if err != nil {
			// The shopper still sees the verifying state; the lookup is retried on reload.
			logger.Warn("payment status lookup failed",
				"transaction_id", result.TransactionID,
				"error", err,
			)
			telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{
				"gateway":        string(method),
				"transaction_id": result.TransactionID,
			})
		}

		h.metrics.RecordPaymentCallback(string(method), string(result.Status))
		logger.Info("payment callback",
			"status", string(result.Status),
			"transaction_id", result.TransactionID,
		)

		if result.Status == domain.CallbackSuccess {
			h.clearCart(r)
		}

		handler.WriteJSON(w, http.StatusOK, result)
	}
}

// clearCart empties the shopper's cart once the gateway confirms payment.
// The result is still shown when the cart cannot be loaded.
func (h *CallbackHandler) clearCart(r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	sessionID := domain.SessionIDFromContext(ctx)
	if sessionID == "" {
		return
	}
	store, err := h.carts.Cart(ctx, sessionID)
	if err != nil {
		logger.Warn("could not load cart after payment", "error", err)
		return
	}
	if res := store.Clear(ctx); res.Degraded() {
		logger.Warn("cleared cart was not saved", "error", res.Err)
	}
}
