package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderReference(t *testing.T) {
	tests := []struct {
		name string
		ymd  string
		n    int64
		want string
	}{
		{"pads to six digits", "20260831", 42, "VST-20260831-000042"},
		{"first of the sequence", "20260101", 1, "VST-20260101-000001"},
		{"large counter keeps all digits", "20260831", 1234567, "VST-20260831-1234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOrderReference(tt.ymd, tt.n))
		})
	}
}
