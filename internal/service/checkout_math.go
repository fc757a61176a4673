package service

import (
	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// Totals is the monetary breakdown of a cart at checkout time.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// ComputeTotals derives the order totals from cart lines and an already
// validated coupon discount. The delivery charge and tax are based on the
// pre-discount subtotal; the grand total is clamped at zero.
func ComputeTotals(items []models.CartItem, discount float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	subtotal = utils.Round2(subtotal)

	if discount > subtotal {
		discount = subtotal
	}
	discount = utils.Round2(discount)

	delivery := utils.DeliveryChargeFor(subtotal)
	tax := utils.TaxFor(subtotal)

	total := utils.Round2(subtotal - discount + delivery + tax)
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: delivery,
		Tax:            tax,
		Total:          total,
	}
}
