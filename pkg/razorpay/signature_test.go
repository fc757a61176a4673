package razorpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_secret_key"
	sig := SignPayment("order_Abc123", "pay_Xyz789", secret)

	assert.True(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", sig, "other_secret"))
	assert.False(t, VerifyPaymentSignature("order_Abc124", "pay_Xyz789", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz790", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", "", secret))
}

func TestSignPaymentIsDeterministic(t *testing.T) {
	a := SignPayment("order_1", "pay_1", "s")
	b := SignPayment("order_1", "pay_1", "s")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
