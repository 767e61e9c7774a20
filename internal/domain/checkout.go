package domain

import "strings"

// PaymentMethod is the closed set of payment gateways a shopper may pick.
// Adding a gateway means adding a value here and a payment.Gateway for it.
type PaymentMethod string

const (
	PaymentMethodVerge  PaymentMethod = "verge"
	PaymentMethodStripe PaymentMethod = "stripe"
)

// PaymentMethods lists every known method in display order.
var PaymentMethods = []PaymentMethod{PaymentMethodVerge, PaymentMethodStripe}

// Known reports whether m is one of the defined payment methods.
func (m PaymentMethod) Known() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// CheckoutFormData is the contact and address data entered on the checkout page.
// It lives only for the duration of one submission attempt.
type CheckoutFormData struct {
	FullName      string        `json:"fullName" validate:"trimmed_required"`
	Email         string        `json:"email" validate:"trimmed_required,shopper_email"`
	Phone         string        `json:"phone" validate:"trimmed_required,shopper_phone"`
	Address       string        `json:"address" validate:"trimmed_required"`
	City          string        `json:"city" validate:"trimmed_required"`
	State         string        `json:"state" validate:"trimmed_required"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"payment_method"`
}

// Normalize trims surrounding whitespace from every text field.
func (f CheckoutFormData) Normalize() CheckoutFormData {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PaymentMethod = PaymentMethod(strings.ToLower(strings.TrimSpace(string(f.PaymentMethod))))
	return f
}

// OrderItem is one line of an order submission.
type OrderItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderCustomer is the contact block of an order submission.
type OrderCustomer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// OrderPayload is the body sent to the order service. It is built fresh from
// the cart and form data on every submission and never stored.
type OrderPayload struct {
	Items         []OrderItem   `json:"items"`
	Customer      OrderCustomer `json:"customer"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Subtotal      int64         `json:"subtotal"`
	Shipping      int64         `json:"shipping"`
	Total         int64         `json:"total"`
}

// OrderResponse is the order service's reply to an order submission.
type OrderResponse struct {
	OrderID    string `json:"orderId,omitempty"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// OrderStatus is the order service's authoritative view of an order's payment.
type OrderStatus struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// CallbackStatus is the outcome shown after a gateway redirects back.
type CallbackStatus string

const (
	CallbackLoading CallbackStatus = "loading"
	CallbackSuccess CallbackStatus = "success"
	CallbackFailed  CallbackStatus = "failed"
)

// CallbackResult is derived from gateway redirect parameters and never persisted.
type CallbackResult struct {
	Status        CallbackStatus `json:"status"`
	TransactionID string         `json:"transactionId,omitempty"`
	Message       string         `json:"message"`
}
