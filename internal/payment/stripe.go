package payment

import (
	"context"
	"net/url"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Stripe interprets the return_url redirect Stripe issues after a
// PaymentIntent confirmation (payment_intent and redirect_status parameters).
type Stripe struct {
	retrieve func(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// NewStripe creates a Stripe gateway. With a secret key, pending payments
// are looked up with the Stripe API; without one, they stay pending.
func NewStripe(secretKey string) *Stripe {
	s := &Stripe{}
	if secretKey != "" {
		client := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
		s.retrieve = func(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
			params := &stripe.PaymentIntentParams{}
			params.Context = ctx
			return client.Get(id, params)
		}
	}
	return s
}

func (s *Stripe) Method() domain.PaymentMethod {
	return domain.PaymentMethodStripe
}

func (s *Stripe) Interpret(query url.Values) domain.CallbackResult {
	return s.InterpretStatus(
		firstParam(query, "payment_intent"),
		firstParam(query, "redirect_status"),
	)
}

func (s *Stripe) InterpretStatus(transactionID, status string) domain.CallbackResult {
	result := domain.CallbackResult{TransactionID: transactionID}

	switch stripe.PaymentIntentStatus(strings.ToLower(strings.TrimSpace(status))) {
	case stripe.PaymentIntentStatusSucceeded:
		result.Status = domain.CallbackSuccess
		result.Message = MessageSuccess
	case "",
		stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresCapture:
		result.Status = domain.CallbackLoading
		result.Message = MessageVerifying
	case stripe.PaymentIntentStatusCanceled:
		result.Status = domain.CallbackFailed
		result.Message = "Payment was canceled."
	case stripe.PaymentIntentStatusRequiresPaymentMethod, "failed":
		result.Status = domain.CallbackFailed
		result.Message = "Payment failed. Please try another payment method."
	default:
		result.Status = domain.CallbackFailed
		result.Message = status
	}
	return result
}

// Verify fetches the PaymentIntent and interprets its current status.
func (s *Stripe) Verify(ctx context.Context, transactionID string) (domain.CallbackResult, error) {
	if s.retrieve == nil {
		return s.InterpretStatus(transactionID, ""), nil
	}

	pi, err := s.retrieve(ctx, transactionID)
	if err != nil {
		return s.InterpretStatus(transactionID, ""),
			domain.WrapError(err, domain.EUNAVAILABLE, "payment.stripe.verify", "could not verify payment")
	}
	return s.InterpretStatus(pi.ID, string(pi.Status)), nil
}
