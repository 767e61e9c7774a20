package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Totals(t *testing.T) {
	tee := Product{ID: "p1", Name: "Tee", Price: 12000, Category: CategoryUnisex, Sizes: []string{"S", "M"}}
	hoodie := Product{ID: "p2", Name: "Hoodie", Price: 25000, Category: CategoryMen, Sizes: []string{"L"}}

	tests := []struct {
		name      string
		cart      Cart
		wantItems int
		wantPrice int64
	}{
		{name: "empty cart", cart: Cart{}, wantItems: 0, wantPrice: 0},
		{
			name:      "single line",
			cart:      Cart{Lines: []CartLine{{Product: tee, Size: "M", Quantity: 2}}},
			wantItems: 2,
			wantPrice: 24000,
		},
		{
			name: "mixed lines",
			cart: Cart{Lines: []CartLine{
				{Product: tee, Size: "S", Quantity: 1},
				{Product: tee, Size: "M", Quantity: 3},
				{Product: hoodie, Size: "L", Quantity: 1},
			}},
			wantItems: 5,
			wantPrice: 73000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantItems, tt.cart.TotalItems())
			assert.Equal(t, tt.wantPrice, tt.cart.TotalPrice())

			summary := tt.cart.Summary()
			assert.Equal(t, tt.wantItems, summary.TotalItems)
			assert.Equal(t, tt.wantPrice, summary.TotalPrice)
			assert.NotNil(t, summary.Lines)
		})
	}
}

func TestCartLine_Key(t *testing.T) {
	line := CartLine{Product: Product{ID: "p1"}, Size: "XL", Quantity: 1}
	assert.Equal(t, LineKey{ProductID: "p1", Size: "XL"}, line.Key())
}

func TestProduct_Validate(t *testing.T) {
	valid := Product{ID: "p1", Name: "Tee", Price: 12000, Category: CategoryWomen, Sizes: []string{"S", "M"}}

	tests := []struct {
		name       string
		mutate     func(p *Product)
		wantFields []string
	}{
		{name: "valid product", mutate: func(p *Product) {}},
		{name: "missing name", mutate: func(p *Product) { p.Name = " " }, wantFields: []string{"name"}},
		{name: "negative price", mutate: func(p *Product) { p.Price = -1 }, wantFields: []string{"price"}},
		{name: "unknown category", mutate: func(p *Product) { p.Category = "kids" }, wantFields: []string{"category"}},
		{name: "no sizes", mutate: func(p *Product) { p.Sizes = nil }, wantFields: []string{"sizes"}},
		{name: "duplicate sizes", mutate: func(p *Product) { p.Sizes = []string{"M", "M"} }, wantFields: []string{"sizes"}},
		{
			name:       "several problems",
			mutate:     func(p *Product) { p.ID = ""; p.Sizes = nil },
			wantFields: []string{"id", "sizes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Sizes = append([]string(nil), valid.Sizes...)
			tt.mutate(&p)

			err := p.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			fields := GetValidationFields(err)
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Equal(t, "product.validate", ErrorOp(err))
		})
	}
}

func TestProduct_Sizes(t *testing.T) {
	p := Product{Sizes: []string{"S", "M", "L"}}
	assert.True(t, p.HasSize("M"))
	assert.False(t, p.HasSize("XXL"))
	assert.Equal(t, "S", p.DefaultSize())
	assert.Equal(t, "", Product{}.DefaultSize())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Women ")
	require.NoError(t, err)
	assert.Equal(t, CategoryWomen, c)

	_, err = ParseCategory("kids")
	assert.True(t, IsCode(err, EINVALID))
}

func TestCheckoutFormData_Normalize(t *testing.T) {
	f := CheckoutFormData{
		FullName:      "  Ada Obi ",
		Email:         " ada@example.com",
		PaymentMethod: " VERGE ",
	}.Normalize()

	assert.Equal(t, "Ada Obi", f.FullName)
	assert.Equal(t, "ada@example.com", f.Email)
	assert.Equal(t, PaymentMethodVerge, f.PaymentMethod)
	assert.True(t, f.PaymentMethod.Known())
	assert.False(t, PaymentMethod("paystack").Known())
}
