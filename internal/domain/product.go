package domain

import "strings"

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Category is the catalog section a product is listed under.
type Category string

const (
	CategoryMen    Category = "men"
	CategoryWomen  Category = "women"
	CategoryUnisex Category = "unisex"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryUnisex:
		return true
	}
	return false
}

// ParseCategory normalizes a category filter from a query string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", Errorf(EINVALID, "catalog.category", "unknown category: %s", s)
	}
	return c, nil
}

// Product is a catalog entry. It is owned by the catalog service and treated
// as read-only here; cart lines keep a snapshot taken at add time.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes"`
	InStock     bool     `json:"inStock"`
	Featured    bool     `json:"featured,omitempty"`
}

// HasSize reports whether size is one of the product's available sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// DefaultSize returns the first available size, used for quick-add actions.
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

// Validate checks the structural invariants of a catalog product.
func (p Product) Validate() error {
	const op = "product.validate"

	var err error
	if strings.TrimSpace(p.ID) == "" {
		err = AddFieldError(err, "id", "required")
	}
	if strings.TrimSpace(p.Name) == "" {
		err = AddFieldError(err, "name", "required")
	}
	if p.Price < 0 {
		err = AddFieldError(err, "price", "must not be negative")
	}
	if !p.Category.Valid() {
		err = AddFieldError(err, "category", "unknown category")
	}
	if len(p.Sizes) == 0 {
		err = AddFieldError(err, "sizes", "at least one size is required")
	} else {
		seen := make(map[string]struct{}, len(p.Sizes))
		for _, s := range p.Sizes {
			if _, dup := seen[s]; dup {
				err = AddFieldError(err, "sizes", "sizes must be unique")
				break
			}
			seen[s] = struct{}{}
		}
	}

	if ve, ok := err.(*ValidationError); ok {
		ve.Op = op
		return ve
	}
	return nil
}
