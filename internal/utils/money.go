package utils

import "math"

// Checkout-wide monetary constants. Delivery eligibility is decided in
// exactly one place (DeliveryChargeFor) so that checkout and refund
// calculations can never disagree on the threshold.
const (
	FreeShippingThreshold = 2999.0
	DeliveryCharge        = 129.0
	TaxRate               = 0.18
)

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeliveryChargeFor returns the delivery charge owed for an order subtotal.
func DeliveryChargeFor(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return DeliveryCharge
}

// TaxFor returns the tax owed on a subtotal, rounded to 2 decimals.
func TaxFor(subtotal float64) float64 {
	return Round2(subtotal * TaxRate)
}

// ToPaise converts a rupee amount to minor currency units for the gateway.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
