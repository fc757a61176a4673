package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockErrorUnwrapsToSentinel(t *testing.T) {
	err := error(&StockError{Product: "Linen Shirt", Size: "M", Available: 2, Err: ErrInsufficientStock})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrStockUnavailable))

	var se *StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Linen Shirt", se.Product)
	assert.Equal(t, "M", se.Size)
	assert.Equal(t, 2, se.Available)
}

func TestStockErrorMessage(t *testing.T) {
	err := &StockError{Product: "Denim Jacket", Size: "XL", Available: 0, Err: ErrStockUnavailable}

	assert.Contains(t, err.Error(), "Denim Jacket")
	assert.Contains(t, err.Error(), "XL")
	assert.Contains(t, err.Error(), "0 available")
}
