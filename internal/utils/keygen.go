package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode generates a wallet referral code: VST-XXXXXXXX.
// The alphabet omits easily confused characters (0/O, 1/I).
func GenerateReferralCode() (string, error) {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[n.Int64()]
	}
	return fmt.Sprintf("VST-%s", string(b)), nil
}

// GenerateReceiptID generates a short receipt identifier for gateway orders.
func GenerateReceiptID(orderRef string) string {
	return fmt.Sprintf("rcpt_%s", orderRef)
}
