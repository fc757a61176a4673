package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignPayment computes the HMAC-SHA256 hex digest Razorpay expects for a
// completed payment: HMAC(secret, "<orderID>|<paymentID>").
func SignPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether the signature supplied by the
// client matches the server-side computation. Comparison is constant-time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := SignPayment(orderID, paymentID, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
