package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VastraLabs/vastra_api/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"pending to confirmed", models.StatusPending, models.StatusConfirmed, true},
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, true},
		{"pending to shipped skips confirmed", models.StatusPending, models.StatusShipped, false},
		{"confirmed to processing", models.StatusConfirmed, models.StatusProcessing, true},
		{"processing to shipped", models.StatusProcessing, models.StatusShipped, true},
		{"shipped to out for delivery", models.StatusShipped, models.StatusOutForDelivery, true},
		{"shipped straight to delivered", models.StatusShipped, models.StatusDelivered, true},
		{"delivered back to shipped", models.StatusDelivered, models.StatusShipped, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusPending, false},
		{"awaiting payment to pending", models.StatusAwaitingPayment, models.StatusPending, true},
		{"awaiting payment to failed", models.StatusAwaitingPayment, models.StatusPaymentFailed, true},
		{"payment failed to pending", models.StatusPaymentFailed, models.StatusPending, true},
		{"payment failed to confirmed", models.StatusPaymentFailed, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanItemTransition(t *testing.T) {
	assert.True(t, CanItemTransition(models.StatusDelivered, models.StatusReturnRequested))
	assert.True(t, CanItemTransition(models.StatusReturnRequested, models.StatusReturned))
	assert.True(t, CanItemTransition(models.StatusReturnRequested, models.StatusDelivered))
	assert.False(t, CanItemTransition(models.StatusPending, models.StatusReturnRequested))
	assert.False(t, CanItemTransition(models.StatusReturned, models.StatusDelivered))

	// Order-level transitions still apply at item level.
	assert.True(t, CanItemTransition(models.StatusPending, models.StatusConfirmed))
	assert.True(t, CanItemTransition(models.StatusProcessing, models.StatusCancelled))
}

func TestAdminAssignable(t *testing.T) {
	assert.False(t, adminAssignable(models.StatusAwaitingPayment))
	assert.False(t, adminAssignable(models.StatusPaymentFailed))
	assert.True(t, adminAssignable(models.StatusShipped))
	assert.True(t, adminAssignable(models.StatusCancelled))
}

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.OrderStatus
		want    models.OrderStatus
		changed bool
	}{
		{
			name:    "all delivered",
			items:   []models.OrderStatus{models.StatusDelivered, models.StatusDelivered},
			want:    models.StatusDelivered,
			changed: true,
		},
		{
			name:    "all cancelled",
			items:   []models.OrderStatus{models.StatusCancelled, models.StatusCancelled, models.StatusCancelled},
			want:    models.StatusCancelled,
			changed: true,
		},
		{
			name:    "delivered plus shipped is shipped",
			items:   []models.OrderStatus{models.StatusDelivered, models.StatusShipped},
			want:    models.StatusShipped,
			changed: true,
		},
		{
			name:    "out for delivery wins within transit",
			items:   []models.OrderStatus{models.StatusShipped, models.StatusOutForDelivery, models.StatusDelivered},
			want:    models.StatusOutForDelivery,
			changed: true,
		},
		{
			name:    "any processing pulls order to processing",
			items:   []models.OrderStatus{models.StatusProcessing, models.StatusShipped},
			want:    models.StatusProcessing,
			changed: true,
		},
		{
			name:    "confirmed plus pending is confirmed",
			items:   []models.OrderStatus{models.StatusConfirmed, models.StatusPending},
			want:    models.StatusConfirmed,
			changed: true,
		},
		{
			name:    "all pending leaves order unchanged",
			items:   []models.OrderStatus{models.StatusPending, models.StatusPending},
			changed: false,
		},
		{
			name:    "delivered plus returned leaves order unchanged",
			items:   []models.OrderStatus{models.StatusDelivered, models.StatusReturned},
			changed: false,
		},
		{
			name:    "cancelled plus delivered leaves order unchanged",
			items:   []models.OrderStatus{models.StatusCancelled, models.StatusDelivered},
			changed: false,
		},
		{
			name:    "no items",
			items:   nil,
			changed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := DeriveOrderStatus(tt.items)
			require.Equal(t, tt.changed, changed)
			if tt.changed {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// The fold must not care which item finished first: any permutation of
// the same item statuses yields the same order status.
func TestDeriveOrderStatusIsOrderIndependent(t *testing.T) {
	statuses := []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
		models.StatusShipped, models.StatusOutForDelivery, models.StatusDelivered,
		models.StatusCancelled, models.StatusReturned,
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(6)
		items := make([]models.OrderStatus, n)
		for i := range items {
			items[i] = statuses[rng.Intn(len(statuses))]
		}

		base, baseChanged := DeriveOrderStatus(items)
		shuffled := make([]models.OrderStatus, n)
		copy(shuffled, items)
		for p := 0; p < 5; p++ {
			rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			got, changed := DeriveOrderStatus(shuffled)
			require.Equal(t, baseChanged, changed, "items=%v shuffled=%v", items, shuffled)
			require.Equal(t, base, got, "items=%v shuffled=%v", items, shuffled)
		}
	}
}
