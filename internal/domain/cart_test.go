package domain_test

import (
	"testing"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestCartFind(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{
		{ProductID: 7, Quantity: 3},
		{ProductID: 42, Quantity: 1},
	}}

	idx, ok := cart.Find(42)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = cart.Find(99)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestCartClone(t *testing.T) {
	original := domain.Cart{Items: []domain.LineItem{{ProductID: 7, Quantity: 3}}}

	clone := original.Clone()
	clone.Items[0].Quantity = 10

	assert.Equal(t, 3, original.Items[0].Quantity)
	assert.NotNil(t, domain.Cart{}.Clone().Items)
}

func TestCartEqual(t *testing.T) {
	price := domain.Money{Amount: decimal.RequireFromString("139.90"), Currency: currency.BRL}
	item := domain.LineItem{ProductID: 42, Title: "Shoe", Price: price, Quantity: 1}

	tests := []struct {
		name string
		a, b domain.Cart
		want bool
	}{
		{
			name: "empty carts: equal",
			want: true,
		},
		{
			name: "same items: equal",
			a:    domain.Cart{Items: []domain.LineItem{item}},
			b:    domain.Cart{Items: []domain.LineItem{item}},
			want: true,
		},
		{
			name: "decimal with trailing zero: equal",
			a:    domain.Cart{Items: []domain.LineItem{item}},
			b: domain.Cart{Items: []domain.LineItem{{
				ProductID: 42, Title: "Shoe", Quantity: 1,
				Price: domain.Money{Amount: decimal.RequireFromString("139.9"), Currency: currency.BRL},
			}}},
			want: true,
		},
		{
			name: "different quantity: not equal",
			a:    domain.Cart{Items: []domain.LineItem{item}},
			b:    domain.Cart{Items: []domain.LineItem{{ProductID: 42, Title: "Shoe", Price: price, Quantity: 2}}},
		},
		{
			name: "different order: not equal",
			a:    domain.Cart{Items: []domain.LineItem{item, {ProductID: 7}}},
			b:    domain.Cart{Items: []domain.LineItem{{ProductID: 7}, item}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}
