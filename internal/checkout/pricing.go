package checkout

import (
	"github.com/dukerupert/vortex/internal"
	"github.com/dukerupert/vortex/internal/domain"
)

// Pricing holds the shipping rule. Amounts are whole currency units.
type Pricing struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

// NewPricing creates a Pricing from checkout configuration.
func NewPricing(cfg internal.CheckoutConfig) Pricing {
	return Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

// Quote is the price breakdown for a cart at one moment.
type Quote struct {
	Subtotal     int64 `json:"subtotal"`
	Shipping     int64 `json:"shipping"`
	Total        int64 `json:"total"`
	FreeShipping bool  `json:"freeShipping"`
}

// ShippingFee returns zero when subtotal is strictly above the threshold and
// the flat fee otherwise.
func (p Pricing) ShippingFee(subtotal int64) int64 {
	if subtotal > p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

// Quote prices c. It is recomputed on every call, never cached.
func (p Pricing) Quote(c domain.Cart) Quote {
	subtotal := c.TotalPrice()
	shipping := p.ShippingFee(subtotal)
	return Quote{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal + shipping,
		FreeShipping: shipping == 0,
	}
}
