package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCode(t *testing.T) {
	pattern := regexp.MustCompile(`^VST-[A-HJ-NP-Z2-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	// 32^8 codes; 50 draws colliding would mean the generator is broken.
	assert.Len(t, seen, 50)
}

func TestGenerateReceiptID(t *testing.T) {
	assert.Equal(t, "rcpt_VST-20260831-000042", GenerateReceiptID("VST-20260831-000042"))
}
