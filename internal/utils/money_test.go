package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.0},
		{149.9985, 150.0},
		{-10.005, -10.01},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in))
	}
}

func TestDeliveryChargeFor(t *testing.T) {
	assert.Equal(t, DeliveryCharge, DeliveryChargeFor(0))
	assert.Equal(t, DeliveryCharge, DeliveryChargeFor(2998.99))
	assert.Equal(t, 0.0, DeliveryChargeFor(FreeShippingThreshold))
	assert.Equal(t, 0.0, DeliveryChargeFor(10000))
}

func TestTaxFor(t *testing.T) {
	assert.Equal(t, 540.0, TaxFor(3000))
	assert.Equal(t, 359.82, TaxFor(1999))
	assert.Equal(t, 0.0, TaxFor(0))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(123400), ToPaise(1234))
	assert.Equal(t, int64(123456), ToPaise(1234.56))
	assert.Equal(t, int64(100), ToPaise(0.999))
	assert.Equal(t, int64(0), ToPaise(0))
}
