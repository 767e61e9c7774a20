package storefront

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/vortex/internal/checkout"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/middleware"
	"github.com/dukerupert/vortex/internal/payment"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// CheckoutHandler handles checkout page and order submission routes
type CheckoutHandler struct {
	carts        Carts
	orchestrator *checkout.Orchestrator
	registry     *payment.Registry
	metrics      *telemetry.BusinessMetrics
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(carts Carts, orchestrator *checkout.Orchestrator, registry *payment.Registry, metrics *telemetry.BusinessMetrics) *CheckoutHandler {
	return &CheckoutHandler{
		carts:        carts,
		orchestrator: orchestrator,
		registry:     registry,
		metrics:      metrics,
	}
}

type checkoutPage struct {
	Cart           domain.CartSummary     `json:"cart"`
	Quote          checkout.Quote         `json:"quote"`
	PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
	DefaultMethod  domain.PaymentMethod   `json:"defaultMethod"`
}

// nextStep tells a JSON client where to send the shopper after submission.
type nextStep struct {
	Next    string `json:"next"`
	URL     string `json:"url"`
	OrderID string `json:"orderId,omitempty"`
}

// Page handles GET /checkout. An empty cart sends the shopper back to /cart.
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}

	snapshot := store.Snapshot()
	if snapshot.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	quote := h.orchestrator.Quote(store)
	h.metrics.RecordCheckoutEntry(quote.Subtotal)

	handler.WriteJSON(w, http.StatusOK, checkoutPage{
		Cart:           snapshot.Summary(),
		Quote:          quote,
		PaymentMethods: h.registry.Methods(),
		DefaultMethod:  h.registry.Default(),
	})
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := decodeCheckoutForm(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	// The page preselects the default method; a form without one means that.
	if strings.TrimSpace(string(form.PaymentMethod)) == "" {
		form.PaymentMethod = h.registry.Default()
	}

	store, ok := sessionCart(w, r, h.carts)
	if !ok {
		return
	}

	attempt, err := h.orchestrator.Submit(ctx, domain.SessionIDFromContext(ctx), store, form)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart) && !handler.WantsJSON(r):
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
		case domain.IsValidationError(err):
			handler.ValidationErrorResponse(w, r, err)
		default:
			handler.ErrorResponseWithMessage(w, r, err, checkout.Classify(err))
		}
		return
	}

	var next nextStep
	switch o := attempt.Outcome.(type) {
	case checkout.RedirectToGateway:
		next = nextStep{Next: "gateway", URL: o.URL}
	case checkout.NavigateToSuccess:
		next = nextStep{
			Next:    "success",
			URL:     "/checkout/success?orderId=" + url.QueryEscape(o.OrderID),
			OrderID: o.OrderID,
		}
	default:
		handler.ErrorResponseWithMessage(w, r, checkout.ErrUnexpectedResponse, checkout.MsgGeneric)
		return
	}

	middleware.GetLogger(ctx).Info("checkout submitted",
		"next", next.Next,
		"state", attempt.State(),
	)

	if handler.WantsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, next)
		return
	}
	http.Redirect(w, r, next.URL, http.StatusSeeOther)
}

// Success handles GET /checkout/success
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.URL.Query().Get("orderId"))
	if orderID == "" {
		handler.BadRequestResponse(w, r, "Missing order ID")
		return
	}

	handler.WriteJSON(w, http.StatusOK, struct {
		OrderID string `json:"orderId"`
		Message string `json:"message"`
	}{
		OrderID: orderID,
		Message: payment.MessageSuccess,
	})
}

// decodeCheckoutForm accepts the form either as JSON or as a regular
// urlencoded or multipart form post.
func decodeCheckoutForm(r *http.Request) (domain.CheckoutFormData, error) {
	var form domain.CheckoutFormData

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := parseForm(r, mediaType); err != nil {
			return form, domain.WrapError(err, domain.EINVALID, "checkout.decode", "Invalid form data")
		}
		form = domain.CheckoutFormData{
			FullName:      r.PostFormValue("fullName"),
			Email:         r.PostFormValue("email"),
			Phone:         r.PostFormValue("phone"),
			Address:       r.PostFormValue("address"),
			City:          r.PostFormValue("city"),
			State:         r.PostFormValue("state"),
			PaymentMethod: domain.PaymentMethod(r.PostFormValue("paymentMethod")),
		}
		return form, nil
	}

	err := handler.DecodeJSON(r, &form)
	return form, err
}

func parseForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(1 << 20)
	}
	return r.ParseForm()
}
