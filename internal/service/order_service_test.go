package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VastraLabs/vastra_api/internal/models"
)

func TestPaid(t *testing.T) {
	payID := "pay_abc123"

	tests := []struct {
		name  string
		order models.Order
		want  bool
	}{
		{"cod pending", models.Order{PaymentMethod: models.PaymentCOD, Status: models.StatusPending}, false},
		{"cod delivered never counts as paid", models.Order{PaymentMethod: models.PaymentCOD, Status: models.StatusDelivered}, false},
		{"wallet awaiting payment", models.Order{PaymentMethod: models.PaymentWallet, Status: models.StatusAwaitingPayment}, false},
		{"wallet payment failed", models.Order{PaymentMethod: models.PaymentWallet, Status: models.StatusPaymentFailed}, false},
		{"wallet pending", models.Order{PaymentMethod: models.PaymentWallet, Status: models.StatusPending}, true},
		{"wallet delivered", models.Order{PaymentMethod: models.PaymentWallet, Status: models.StatusDelivered}, true},
		{"razorpay without captured payment", models.Order{PaymentMethod: models.PaymentRazorpay, Status: models.StatusAwaitingPayment}, false},
		{"razorpay with captured payment", models.Order{PaymentMethod: models.PaymentRazorpay, Status: models.StatusDelivered, GatewayPaymentID: &payID}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paid(&tt.order))
		})
	}
}

func TestHasPendingReturn(t *testing.T) {
	tests := []struct {
		name  string
		items []models.OrderItem
		want  bool
	}{
		{
			name: "return requested blocks",
			items: []models.OrderItem{
				{Status: models.StatusDelivered},
				{Status: models.StatusReturnRequested},
			},
			want: true,
		},
		{
			name: "already returned blocks",
			items: []models.OrderItem{
				{Status: models.StatusDelivered},
				{Status: models.StatusReturned},
			},
			want: true,
		},
		{
			name: "delivered only",
			items: []models.OrderItem{
				{Status: models.StatusDelivered},
				{Status: models.StatusDelivered},
			},
			want: false,
		},
		{
			name:  "no items",
			items: nil,
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasPendingReturn(tt.items))
		})
	}
}
