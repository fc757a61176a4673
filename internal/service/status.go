package service

import (
	"github.com/VastraLabs/vastra_api/internal/models"
)

// orderTransitions is the legal transition table shared by order-level and
// item-level updates. "Awaiting Payment" and "Payment Failed" only move
// through the payment retry flow; Cancelled is terminal.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusAwaitingPayment: {models.StatusPending, models.StatusPaymentFailed, models.StatusCancelled},
	models.StatusPaymentFailed:   {models.StatusPending},
	models.StatusPending:         {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:       {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing:      {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:         {models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled},
	models.StatusOutForDelivery:  {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:       {models.StatusCancelled}, // guarded: needs a return request
	models.StatusCancelled:       {},
}

// itemExtraTransitions adds the item-only return sub-states.
var itemExtraTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusDelivered:       {models.StatusReturnRequested},
	models.StatusReturnRequested: {models.StatusReturned, models.StatusDelivered},
}

// CanTransition reports whether an order-level status change is legal.
// The Delivered -> Cancelled guard (a pending return must exist) is
// enforced by the caller, which has the items at hand.
func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanItemTransition reports whether an item-level status change is legal.
func CanItemTransition(from, to models.OrderStatus) bool {
	if CanTransition(from, to) {
		return true
	}
	for _, s := range itemExtraTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// adminAssignable excludes payment-flow states from admin status updates;
// those are only ever set by the checkout and retry-verification paths.
func adminAssignable(to models.OrderStatus) bool {
	return to != models.StatusAwaitingPayment && to != models.StatusPaymentFailed
}

// DeriveOrderStatus folds the current item statuses into one order status.
// The fold is pure and order-independent: it counts statuses first and then
// applies the rules by priority, so the same multiset of item statuses
// always yields the same result. The second return value is false when no
// rule matches and the order status should stay as it is.
func DeriveOrderStatus(items []models.OrderStatus) (models.OrderStatus, bool) {
	if len(items) == 0 {
		return "", false
	}

	counts := make(map[models.OrderStatus]int, len(items))
	for _, s := range items {
		counts[s]++
	}
	n := len(items)

	// All delivered / all cancelled.
	if counts[models.StatusDelivered] == n {
		return models.StatusDelivered, true
	}
	if counts[models.StatusCancelled] == n {
		return models.StatusCancelled, true
	}

	// Everything at least shipped: order is as far along as its slowest item.
	inTransit := counts[models.StatusShipped] + counts[models.StatusOutForDelivery] + counts[models.StatusDelivered]
	if inTransit == n {
		if counts[models.StatusOutForDelivery] > 0 {
			return models.StatusOutForDelivery, true
		}
		return models.StatusShipped, true
	}

	if counts[models.StatusProcessing] > 0 || counts[models.StatusShipped] > 0 || counts[models.StatusOutForDelivery] > 0 {
		return models.StatusProcessing, true
	}
	if counts[models.StatusConfirmed] > 0 {
		return models.StatusConfirmed, true
	}

	return "", false
}
