package service

import (
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// RefundInput captures everything needed to compute a single item's refund
// from the persisted order snapshot. Remaining* describe the order after
// this item is taken out: the items still active (not cancelled or
// returned) and their combined subtotal.
type RefundInput struct {
	OrderSubtotal  float64
	OrderDiscount  float64
	OrderTax       float64
	DeliveryCharge float64
	ItemSubtotal   float64
	RemainingItems int
	RemainingValue float64
}

// ProportionalRefund computes the refund for one cancelled or returned
// item. The item carries back its own subtotal minus its proportional
// share of the coupon discount, plus its proportional share of the tax
// (weighted by after-discount value), plus a delivery component when the
// delivery charge was paid: the full charge if this was the last active
// item, otherwise a per-item share when the remaining order value falls
// under the free-shipping threshold.
func ProportionalRefund(in RefundInput) float64 {
	if in.OrderSubtotal <= 0 || in.ItemSubtotal <= 0 {
		return 0
	}

	proportion := in.ItemSubtotal / in.OrderSubtotal
	couponShare := utils.Round2(in.OrderDiscount * proportion)

	afterDiscountItem := in.ItemSubtotal - couponShare
	afterDiscountOrder := in.OrderSubtotal - in.OrderDiscount

	var taxShare float64
	if afterDiscountOrder > 0 {
		taxShare = utils.Round2(in.OrderTax * afterDiscountItem / afterDiscountOrder)
	}

	var deliveryRefund float64
	if in.DeliveryCharge > 0 {
		if in.RemainingItems == 0 {
			deliveryRefund = in.DeliveryCharge
		} else if in.RemainingValue < utils.FreeShippingThreshold {
			deliveryRefund = utils.Round2(in.DeliveryCharge / float64(in.RemainingItems+1))
		}
	}

	refund := utils.Round2(in.ItemSubtotal - couponShare + taxShare + deliveryRefund)
	if refund < 0 {
		refund = 0
	}
	return refund
}
