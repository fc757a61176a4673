package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VastraLabs/vastra_api/internal/models"
)

func cartLines(prices map[float64]int) []models.CartItem {
	items := make([]models.CartItem, 0, len(prices))
	for price, qty := range prices {
		items = append(items, models.CartItem{SalePrice: price, Quantity: qty})
	}
	return items
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartItem
		discount float64
		want     Totals
	}{
		{
			name:     "below free shipping threshold",
			items:    cartLines(map[float64]int{999.50: 2}),
			discount: 0,
			want: Totals{
				Subtotal:       1999.0,
				Discount:       0,
				DeliveryCharge: 129.0,
				Tax:            359.82,
				Total:          2487.82,
			},
		},
		{
			name:     "at free shipping threshold",
			items:    cartLines(map[float64]int{2999: 1}),
			discount: 0,
			want: Totals{
				Subtotal:       2999.0,
				Discount:       0,
				DeliveryCharge: 0,
				Tax:            539.82,
				Total:          3538.82,
			},
		},
		{
			name:     "just under free shipping threshold",
			items:    cartLines(map[float64]int{2998.99: 1}),
			discount: 0,
			want: Totals{
				Subtotal:       2998.99,
				Discount:       0,
				DeliveryCharge: 129.0,
				Tax:            539.82,
				Total:          3667.81,
			},
		},
		{
			name:     "discount applied before tax base is untouched",
			items:    cartLines(map[float64]int{1000: 3}),
			discount: 300,
			want: Totals{
				Subtotal:       3000.0,
				Discount:       300.0,
				DeliveryCharge: 0,
				Tax:            540.0,
				Total:          3240.0,
			},
		},
		{
			name:     "discount clamped to subtotal",
			items:    cartLines(map[float64]int{100: 1}),
			discount: 500,
			want: Totals{
				Subtotal:       100.0,
				Discount:       100.0,
				DeliveryCharge: 129.0,
				Tax:            18.0,
				Total:          147.0,
			},
		},
		{
			name:     "empty cart",
			items:    nil,
			discount: 0,
			want: Totals{
				Subtotal:       0,
				Discount:       0,
				DeliveryCharge: 129.0,
				Tax:            0,
				Total:          129.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.discount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name       string
		coupon     models.Coupon
		orderValue float64
		want       float64
	}{
		{
			name:       "percent",
			coupon:     models.Coupon{Type: models.CouponTypePercent, Value: 10},
			orderValue: 2500,
			want:       250.0,
		},
		{
			name:       "percent rounds to two decimals",
			coupon:     models.Coupon{Type: models.CouponTypePercent, Value: 15},
			orderValue: 999.99,
			want:       150.0,
		},
		{
			name:       "percent capped at max discount",
			coupon:     models.Coupon{Type: models.CouponTypePercent, Value: 20, MaxDiscount: 300},
			orderValue: 5000,
			want:       300.0,
		},
		{
			name:       "flat",
			coupon:     models.Coupon{Type: models.CouponTypeFlat, Value: 200},
			orderValue: 1500,
			want:       200.0,
		},
		{
			name:       "flat never exceeds order value",
			coupon:     models.Coupon{Type: models.CouponTypeFlat, Value: 500},
			orderValue: 350,
			want:       350.0,
		},
		{
			name:       "unknown type yields nothing",
			coupon:     models.Coupon{Type: "BOGO", Value: 50},
			orderValue: 1000,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CouponDiscount(&tt.coupon, tt.orderValue))
		})
	}
}
