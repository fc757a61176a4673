package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProportionalRefund(t *testing.T) {
	t.Run("coupon and tax shares are proportional", func(t *testing.T) {
		// Two items worth 2000 and 1000, coupon 300, tax 540, free shipping.
		// Cancelling the 1000 item carries a third of the coupon (100) and
		// a tax share weighted by after-discount value (180).
		got := ProportionalRefund(RefundInput{
			OrderSubtotal:  3000,
			OrderDiscount:  300,
			OrderTax:       540,
			DeliveryCharge: 0,
			ItemSubtotal:   1000,
			RemainingItems: 1,
			RemainingValue: 2000,
		})
		assert.Equal(t, 1080.0, got)
	})

	t.Run("last item refunds the whole order total", func(t *testing.T) {
		// Single item at 1500, no coupon: tax 270, delivery 129.
		got := ProportionalRefund(RefundInput{
			OrderSubtotal:  1500,
			OrderTax:       270,
			DeliveryCharge: 129,
			ItemSubtotal:   1500,
			RemainingItems: 0,
			RemainingValue: 0,
		})
		assert.Equal(t, 1899.0, got)
	})

	t.Run("delivery share when remaining order stays below threshold", func(t *testing.T) {
		got := ProportionalRefund(RefundInput{
			OrderSubtotal:  2000,
			OrderTax:       360,
			DeliveryCharge: 129,
			ItemSubtotal:   1000,
			RemainingItems: 1,
			RemainingValue: 1000,
		})
		// 1000 + tax share 180 + half the delivery charge 64.50
		assert.Equal(t, 1244.5, got)
	})

	t.Run("no delivery share when delivery was free", func(t *testing.T) {
		got := ProportionalRefund(RefundInput{
			OrderSubtotal:  6000,
			OrderTax:       1080,
			DeliveryCharge: 0,
			ItemSubtotal:   3000,
			RemainingItems: 1,
			RemainingValue: 3000,
		})
		assert.Equal(t, 3540.0, got)
	})

	t.Run("zero item subtotal refunds nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, ProportionalRefund(RefundInput{OrderSubtotal: 1000}))
	})
}

// Cancelling every item of a free-shipping order, one by one, must hand
// back exactly what was paid: the coupon and tax shares sum back to the
// whole discount and tax.
func TestProportionalRefundConservesOrderTotal(t *testing.T) {
	subtotals := []float64{1200, 800, 500}
	var orderSubtotal float64
	for _, s := range subtotals {
		orderSubtotal += s
	}
	discount := 250.0
	tax := 450.0
	total := orderSubtotal - discount + tax

	var refunded float64
	remaining := subtotals
	for i, itemSub := range subtotals {
		remaining = remaining[1:]
		var remainingValue float64
		for _, s := range remaining {
			remainingValue += s
		}
		refunded += ProportionalRefund(RefundInput{
			OrderSubtotal:  orderSubtotal,
			OrderDiscount:  discount,
			OrderTax:       tax,
			DeliveryCharge: 0,
			ItemSubtotal:   itemSub,
			RemainingItems: len(subtotals) - i - 1,
			RemainingValue: remainingValue,
		})
	}

	assert.InDelta(t, total, refunded, 0.01)
}
