// Package checkout turns a cart and shopper details into a submitted order
// and decides where the shopper goes next.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/dukerupert/vortex/internal/api"
	"github.com/dukerupert/vortex/internal/cart"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// Shopper-facing submission messages.
const (
	MsgCannotReach   = "Cannot reach the server. Please check your connection and try again."
	MsgNotResponding = "The server is not responding. Please try again later."
	MsgGeneric       = "There was an error processing your order. Please try again."
)

var (
	ErrEmptyCart            = domain.Errorf(domain.EINVALID, "checkout.submit", "Your cart is empty")
	ErrSubmissionInProgress = domain.Errorf(domain.ECONFLICT, "checkout.submit", "Your order is already being submitted")
	ErrUnexpectedResponse   = domain.Errorf(domain.EINTERNAL, "checkout.submit", MsgGeneric)
)

// State is a step of one checkout attempt.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateValidationFailed     State = "validation_failed"
	StateSubmitting           State = "submitting"
	StateSubmitFailed         State = "submit_failed"
	StateRedirectingToGateway State = "redirecting_to_gateway"
	StateNavigatingToSuccess  State = "navigating_to_success"
)

// Terminal reports whether the attempt has handed the shopper off.
func (s State) Terminal() bool {
	return s == StateRedirectingToGateway || s == StateNavigatingToSuccess
}

// OrderService creates orders.
type OrderService interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (domain.OrderResponse, error)
}

// Outcome is where a successful attempt sends the shopper. It is either
// RedirectToGateway or NavigateToSuccess.
type Outcome interface {
	outcome()
}

// RedirectToGateway sends the shopper to a hosted payment page.
type RedirectToGateway struct {
	URL string
}

// NavigateToSuccess sends the shopper to the local success page.
type NavigateToSuccess struct {
	OrderID string
}

func (RedirectToGateway) outcome() {}
func (NavigateToSuccess) outcome() {}

// Attempt records one pass through the checkout state machine.
type Attempt struct {
	States  []State
	Quote   Quote
	Outcome Outcome
}

// State returns the most recent state.
func (a *Attempt) State() State {
	if len(a.States) == 0 {
		return StateIdle
	}
	return a.States[len(a.States)-1]
}

func (a *Attempt) enter(s State) {
	a.States = append(a.States, s)
}

// Orchestrator validates and submits orders. At most one submission per
// session is in flight at a time.
type Orchestrator struct {
	orders    OrderService
	pricing   Pricing
	validator *Validator
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
	inflight  sync.Map
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records checkout activity on m.
func WithMetrics(m *telemetry.BusinessMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// New creates an Orchestrator.
func New(orders OrderService, pricing Pricing, v *Validator, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = NewValidator(nil)
	}

	o := &Orchestrator{
		orders:    orders,
		pricing:   pricing,
		validator: v,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Quote prices the cart as it is now.
func (o *Orchestrator) Quote(store *cart.Store) Quote {
	return o.pricing.Quote(store.Snapshot())
}

// Submit runs one checkout attempt for the session's cart.
//
// The cart is cleared only when the order service confirms an order without
// a payment redirect. Every failure leaves the cart untouched; the returned
// Attempt is never nil.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, store *cart.Store, form domain.CheckoutFormData) (*Attempt, error) {
	attempt := &Attempt{States: []State{StateIdle}}

	snapshot := store.Snapshot()
	if snapshot.IsEmpty() {
		return attempt, ErrEmptyCart
	}

	if _, busy := o.inflight.LoadOrStore(sessionID, struct{}{}); busy {
		return attempt, ErrSubmissionInProgress
	}
	defer o.inflight.Delete(sessionID)

	logger := o.logger.With(
		"session_id", sessionID,
		"request_id", domain.RequestIDFromContext(ctx),
	)

	attempt.enter(StateValidating)
	form = form.Normalize()
	o.metrics.RecordCheckoutStarted(string(form.PaymentMethod))

	if err := o.validator.CheckoutForm(form); err != nil {
		attempt.enter(StateValidationFailed)
		for field := range domain.GetValidationFields(err) {
			o.metrics.RecordValidationFailure(field)
		}
		o.metrics.RecordCheckoutOutcome(string(StateValidationFailed))
		logger.Info("checkout validation failed", "error", err)
		return attempt, err
	}

	attempt.Quote = o.pricing.Quote(snapshot)
	payload := BuildPayload(snapshot, form, attempt.Quote)

	attempt.enter(StateSubmitting)
	o.metrics.RecordOrderSubmitted(string(form.PaymentMethod), attempt.Quote.Total)

	spanCtx, finish := telemetry.StartSpan(ctx, "checkout.submit", "create order")
	resp, err := o.orders.CreateOrder(spanCtx, payload)
	finish()

	if err != nil {
		attempt.enter(StateSubmitFailed)
		kind := errorKind(err)
		o.metrics.RecordCheckoutError(kind)
		o.metrics.RecordCheckoutOutcome(string(StateSubmitFailed))
		logger.Warn("order submission failed", "kind", kind, "error", err)
		if kind != "client" {
			telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{
				"payment_method": string(form.PaymentMethod),
				"total":          attempt.Quote.Total,
			})
		}
		return attempt, err
	}

	switch {
	case resp.PaymentURL != "":
		if !validRedirect(resp.PaymentURL) {
			return o.unexpected(ctx, logger, attempt, resp)
		}
		attempt.enter(StateRedirectingToGateway)
		attempt.Outcome = RedirectToGateway{URL: resp.PaymentURL}
		logger.Info("redirecting to payment gateway",
			"order_id", resp.OrderID,
			"payment_method", form.PaymentMethod,
		)

	case resp.OrderID != "":
		if res := store.Clear(ctx); res.Degraded() {
			logger.Warn("order placed but cleared cart was not saved", "error", res.Err)
		}
		attempt.enter(StateNavigatingToSuccess)
		attempt.Outcome = NavigateToSuccess{OrderID: resp.OrderID}
		logger.Info("order placed", "order_id", resp.OrderID)

	default:
		return o.unexpected(ctx, logger, attempt, resp)
	}

	o.metrics.RecordCheckoutOutcome(string(attempt.State()))
	return attempt, nil
}

func (o *Orchestrator) unexpected(ctx context.Context, logger *slog.Logger, attempt *Attempt, resp domain.OrderResponse) (*Attempt, error) {
	attempt.enter(StateSubmitFailed)
	o.metrics.RecordCheckoutError("unexpected")
	o.metrics.RecordCheckoutOutcome(string(StateSubmitFailed))
	logger.Error("order service returned an unusable response",
		"order_id", resp.OrderID,
		"payment_url", resp.PaymentURL,
	)
	telemetry.CaptureErrorFromContext(ctx, ErrUnexpectedResponse, map[string]interface{}{
		"order_id":    resp.OrderID,
		"payment_url": resp.PaymentURL,
	})
	return attempt, ErrUnexpectedResponse
}

// validRedirect accepts absolute http and https URLs only.
func validRedirect(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "https" || u.Scheme == "http"
}

// BuildPayload assembles the order body from a cart snapshot.
func BuildPayload(c domain.Cart, form domain.CheckoutFormData, q Quote) domain.OrderPayload {
	items := make([]domain.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, domain.OrderItem{
			ProductID: l.Product.ID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
		})
	}

	return domain.OrderPayload{
		Items: items,
		Customer: domain.OrderCustomer{
			FullName: form.FullName,
			Email:    form.Email,
			Phone:    form.Phone,
			Address:  form.Address,
			City:     form.City,
			State:    form.State,
		},
		PaymentMethod: form.PaymentMethod,
		Subtotal:      q.Subtotal,
		Shipping:      q.Shipping,
		Total:         q.Total,
	}
}

// Classify returns the single message shown to the shopper for err.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var (
		netErr     *api.NetworkError
		timeoutErr *api.TimeoutError
		serverErr  *api.ServerError
		ve         *domain.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message()
	case errors.As(err, &netErr):
		return MsgCannotReach
	case errors.As(err, &timeoutErr):
		return MsgNotResponding
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return MsgGeneric
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrSubmissionInProgress):
		return domain.ErrorMessage(err)
	default:
		return MsgGeneric
	}
}

func errorKind(err error) string {
	var (
		netErr     *api.NetworkError
		timeoutErr *api.TimeoutError
		serverErr  *api.ServerError
	)
	switch {
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &serverErr):
		if serverErr.Status >= 400 && serverErr.Status < 500 {
			return "client"
		}
		return "server"
	default:
		return "other"
	}
}
