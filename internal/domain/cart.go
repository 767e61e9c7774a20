package domain

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// MaxLineQuantity caps the units held on a single cart line.
const MaxLineQuantity = 99

var (
	ErrInvalidQuantity = &Error{Code: EINVALID, Op: "cart.add", Message: "Quantity must be greater than 0"}
	ErrProductRequired = &Error{Code: EINVALID, Op: "cart.add", Message: "Product is required"}

	// ErrQuantityLimit matches ErrInvalidQuantity under errors.Is.
	ErrQuantityLimit = &Error{Code: EINVALID, Op: "cart.add", Message: "Quantity cannot be more than 99", Err: ErrInvalidQuantity}
)

// LineKey identifies a cart line. A cart holds at most one line per key.
type LineKey struct {
	ProductID string
	Size      string
}

// CartLine is one (product, size) entry in a shopper's cart.
// Quantity is always positive; a line reduced to zero is removed.
type CartLine struct {
	Product  Product `json:"product"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
}

// Key returns the composite key of the line.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size}
}

// Subtotal is the line's price times its quantity.
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Cart is an ordered list of lines in insertion order.
// Totals are derived from the lines on every call and never stored.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItems is the sum of all line quantities.
func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of price times quantity over all lines.
func (c Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// CartSummary is the JSON view of a cart returned to the storefront.
type CartSummary struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

// Summary builds the JSON view of c.
func (c Cart) Summary() CartSummary {
	lines := c.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	return CartSummary{
		Lines:      lines,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
