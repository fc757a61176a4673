package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/database"
	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// ReturnWindow is how long after delivery an item can be sent back.
const ReturnWindow = 7 * 24 * time.Hour

// OrderService drives the order lifecycle after checkout: status
// transitions, cancellations, returns and the wallet refunds they
// produce. Every mutation that touches stock or money runs in one
// transaction.
type OrderService struct {
	db          *sqlx.DB
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	walletRepo  *repository.WalletRepository
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *sqlx.DB, orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository, walletRepo *repository.WalletRepository) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		walletRepo:  walletRepo,
	}
}

// List returns a page of the user's orders, newest first.
func (s *OrderService) List(userID, page, limit int) ([]models.Order, int, error) {
	return s.orderRepo.ListByUser(userID, page, limit)
}

// Get returns one of the user's orders with its items.
func (s *OrderService) Get(userID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListAdmin returns a filtered page of all orders.
func (s *OrderService) ListAdmin(filter *repository.AdminOrderFilter) ([]models.Order, int, error) {
	return s.orderRepo.GetAllAdmin(filter)
}

// GetAdmin returns any order with its items.
func (s *OrderService) GetAdmin(orderID int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// Stats returns the admin dashboard aggregates.
func (s *OrderService) Stats(startDate, endDate *string) (*repository.AdminOrderStats, error) {
	return s.orderRepo.GetAdminStats(startDate, endDate)
}

// userCancellable limits self-service cancellation to the pre-shipment
// states. Anything already with the courier goes through support.
func userCancellable(status models.OrderStatus) bool {
	switch status {
	case models.StatusAwaitingPayment, models.StatusPending, models.StatusConfirmed, models.StatusProcessing:
		return true
	}
	return false
}

// paid reports whether money was actually collected for the order.
func paid(o *models.Order) bool {
	switch o.PaymentMethod {
	case models.PaymentWallet:
		return o.Status != models.StatusAwaitingPayment && o.Status != models.StatusPaymentFailed
	case models.PaymentRazorpay:
		return o.GatewayPaymentID != nil
	}
	return false
}

// stockTaken reports whether checkout ever decremented stock for the
// order. Gateway orders only take stock once payment verifies.
func stockTaken(o *models.Order) bool {
	return o.Status != models.StatusAwaitingPayment && o.Status != models.StatusPaymentFailed
}

// Cancel cancels a whole order on the user's behalf: every non-terminal
// item is cancelled, taken stock goes back, and prepaid amounts not yet
// refunded are credited to the wallet.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID int, reason string) (*models.Order, error) {
	order, err := s.Get(userID, orderID)
	if err != nil {
		return nil, err
	}
	if !userCancellable(order.Status) {
		return nil, utils.ErrIllegalTransition
	}
	return s.cancelOrder(ctx, order, reason)
}

// CancelAdmin cancels an order from the admin side. The Delivered state
// is only cancellable when a return request is pending on some item.
func (s *OrderService) CancelAdmin(ctx context.Context, orderID int, reason string) (*models.Order, error) {
	order, err := s.GetAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, models.StatusCancelled) {
		return nil, utils.ErrIllegalTransition
	}
	if order.Status == models.StatusDelivered && !hasPendingReturn(order.Items) {
		return nil, utils.ErrIllegalTransition
	}
	return s.cancelOrder(ctx, order, reason)
}

func hasPendingReturn(items []models.OrderItem) bool {
	for _, it := range items {
		if it.Status == models.StatusReturnRequested || it.Status == models.StatusReturned {
			return true
		}
	}
	return false
}

func (s *OrderService) cancelOrder(ctx context.Context, order *models.Order, reason string) (*models.Order, error) {
	refund := outstandingRefund(order)

	var wallet *models.Wallet
	if refund > 0 && paid(order) {
		w, err := s.walletRepo.GetOrCreate(order.UserID)
		if err != nil {
			return nil, err
		}
		wallet = w
	}

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items, err := s.orderRepo.GetItemsLocked(tx, order.ID)
		if err != nil {
			return err
		}

		for i := range items {
			it := &items[i]
			if it.Status.IsTerminal() {
				continue
			}
			if stockTaken(order) {
				if err := s.productRepo.IncrementStock(tx, it.VariantID, it.Quantity); err != nil {
					return err
				}
			}
			appendHistory(it, it.Status, models.StatusCancelled, reason)
			it.Status = models.StatusCancelled
			r := reason
			it.CancelReason = &r
			if err := s.orderRepo.UpdateItem(tx, it); err != nil {
				return err
			}
		}

		if wallet != nil {
			if _, err := s.walletRepo.Credit(tx, wallet.ID, refund, models.WalletCategoryRefund, order.Reference); err != nil {
				return err
			}
		}

		r := reason
		return s.orderRepo.UpdateStatus(tx, order.ID, models.StatusCancelled, &r)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("reference", order.Reference).Float64("refund", refund).Msg("Order cancelled")
	return s.GetAdmin(order.ID)
}

// outstandingRefund is the order total minus refunds already issued for
// individually cancelled or returned items.
func outstandingRefund(order *models.Order) float64 {
	refund := order.Total
	for _, it := range order.Items {
		if it.RefundAmount != nil {
			refund -= *it.RefundAmount
		}
	}
	refund = utils.Round2(refund)
	if refund < 0 {
		refund = 0
	}
	return refund
}

// CancelItem cancels a single line of the user's order. The item's stock
// comes back, a proportional refund is credited for prepaid orders, and
// the order status is re-derived from what remains.
func (s *OrderService) CancelItem(ctx context.Context, userID, orderID, itemID int, reason string) (*models.Order, error) {
	order, err := s.Get(userID, orderID)
	if err != nil {
		return nil, err
	}
	if !userCancellable(order.Status) {
		return nil, utils.ErrIllegalTransition
	}

	return s.mutateItem(ctx, order, itemID, func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error {
		switch it.Status {
		case models.StatusPending, models.StatusConfirmed, models.StatusProcessing:
		default:
			return utils.ErrIllegalTransition
		}

		if err := s.productRepo.IncrementStock(tx, it.VariantID, it.Quantity); err != nil {
			return err
		}

		if paid(order) {
			refund := s.itemRefund(order, items, it)
			if err := s.creditRefund(tx, order, refund); err != nil {
				return err
			}
			it.RefundAmount = &refund
		}

		appendHistory(it, it.Status, models.StatusCancelled, reason)
		it.Status = models.StatusCancelled
		r := reason
		it.CancelReason = &r
		return nil
	})
}

// RequestReturn flags a delivered item for return, inside the window.
func (s *OrderService) RequestReturn(ctx context.Context, userID, orderID, itemID int, reason string) (*models.Order, error) {
	order, err := s.Get(userID, orderID)
	if err != nil {
		return nil, err
	}

	return s.mutateItem(ctx, order, itemID, func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error {
		if it.ReturnRequested || it.Status == models.StatusReturnRequested || it.Status == models.StatusReturned {
			return utils.ErrReturnExists
		}
		if it.Status != models.StatusDelivered {
			return utils.ErrIllegalTransition
		}

		deliveredAt := it.DeliveredAt
		if deliveredAt == nil {
			deliveredAt = order.DeliveredAt
		}
		if deliveredAt == nil || time.Since(*deliveredAt) > ReturnWindow {
			return utils.ErrReturnWindow
		}

		appendHistory(it, it.Status, models.StatusReturnRequested, reason)
		it.Status = models.StatusReturnRequested
		it.ReturnRequested = true
		r := reason
		it.ReturnReason = &r
		it.ReturnRejectReason = nil
		return nil
	})
}

// ApproveReturn accepts a requested return: the item becomes Returned,
// stock comes back and the proportional refund lands in the wallet. COD
// returns get no wallet credit; the cash is handed back on pickup.
func (s *OrderService) ApproveReturn(ctx context.Context, orderID, itemID int) (*models.Order, error) {
	order, err := s.GetAdmin(orderID)
	if err != nil {
		return nil, err
	}

	return s.mutateItem(ctx, order, itemID, func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error {
		if it.Status != models.StatusReturnRequested {
			return utils.ErrIllegalTransition
		}

		if err := s.productRepo.IncrementStock(tx, it.VariantID, it.Quantity); err != nil {
			return err
		}

		if paid(order) {
			refund := s.itemRefund(order, items, it)
			if err := s.creditRefund(tx, order, refund); err != nil {
				return err
			}
			it.RefundAmount = &refund
		}

		appendHistory(it, it.Status, models.StatusReturned, "")
		it.Status = models.StatusReturned
		return nil
	})
}

// RejectReturn declines a requested return. The item goes back to
// Delivered with the rejection reason recorded.
func (s *OrderService) RejectReturn(ctx context.Context, orderID, itemID int, reason string) (*models.Order, error) {
	order, err := s.GetAdmin(orderID)
	if err != nil {
		return nil, err
	}

	return s.mutateItem(ctx, order, itemID, func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error {
		if it.Status != models.StatusReturnRequested {
			return utils.ErrIllegalTransition
		}
		appendHistory(it, it.Status, models.StatusDelivered, reason)
		it.Status = models.StatusDelivered
		it.ReturnRequested = false
		r := reason
		it.ReturnRejectReason = &r
		return nil
	})
}

// UpdateStatus applies an admin order-level status change and cascades it
// to every item that is not terminal and not in a return flow.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, to models.OrderStatus, reason string) (*models.Order, error) {
	order, err := s.GetAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if !adminAssignable(to) {
		return nil, utils.ErrIllegalTransition
	}
	if to == models.StatusCancelled {
		return s.CancelAdmin(ctx, orderID, reason)
	}
	if !CanTransition(order.Status, to) {
		return nil, utils.ErrIllegalTransition
	}

	now := time.Now()
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items, err := s.orderRepo.GetItemsLocked(tx, order.ID)
		if err != nil {
			return err
		}
		for i := range items {
			it := &items[i]
			if it.Status.IsTerminal() || it.Status == models.StatusReturnRequested {
				continue
			}
			if !CanItemTransition(it.Status, to) {
				continue
			}
			appendHistory(it, it.Status, to, reason)
			it.Status = to
			if to == models.StatusDelivered {
				it.DeliveredAt = &now
			}
			if err := s.orderRepo.UpdateItem(tx, it); err != nil {
				return err
			}
		}
		return s.orderRepo.UpdateStatus(tx, order.ID, to, nil)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("reference", order.Reference).Str("status", string(to)).Msg("Order status updated")
	return s.GetAdmin(order.ID)
}

// UpdateItemStatus applies an admin item-level status change and then
// re-derives the order status from the items.
func (s *OrderService) UpdateItemStatus(ctx context.Context, orderID, itemID int, to models.OrderStatus, reason string) (*models.Order, error) {
	order, err := s.GetAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if !adminAssignable(to) {
		return nil, utils.ErrIllegalTransition
	}

	return s.mutateItem(ctx, order, itemID, func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error {
		if !CanItemTransition(it.Status, to) {
			return utils.ErrIllegalTransition
		}

		if to == models.StatusCancelled {
			if stockTaken(order) {
				if err := s.productRepo.IncrementStock(tx, it.VariantID, it.Quantity); err != nil {
					return err
				}
			}
			if paid(order) {
				refund := s.itemRefund(order, items, it)
				if err := s.creditRefund(tx, order, refund); err != nil {
					return err
				}
				it.RefundAmount = &refund
			}
			r := reason
			it.CancelReason = &r
		}

		appendHistory(it, it.Status, to, reason)
		it.Status = to
		if to == models.StatusDelivered {
			now := time.Now()
			it.DeliveredAt = &now
		}
		return nil
	})
}

// mutateItem locks the order's items, applies fn to the target item,
// persists it, then folds the item statuses back into the order status.
func (s *OrderService) mutateItem(ctx context.Context, order *models.Order, itemID int, fn func(tx *sqlx.Tx, it *models.OrderItem, items []models.OrderItem) error) (*models.Order, error) {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items, err := s.orderRepo.GetItemsLocked(tx, order.ID)
		if err != nil {
			return err
		}

		var target *models.OrderItem
		for i := range items {
			if items[i].ID == itemID {
				target = &items[i]
				break
			}
		}
		if target == nil {
			return utils.ErrItemNotFound
		}

		if err := fn(tx, target, items); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateItem(tx, target); err != nil {
			return err
		}

		statuses := make([]models.OrderStatus, len(items))
		for i := range items {
			statuses[i] = items[i].Status
		}
		if derived, ok := DeriveOrderStatus(statuses); ok && derived != order.Status {
			return s.orderRepo.UpdateStatus(tx, order.ID, derived, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAdmin(order.ID)
}

// itemRefund computes the proportional refund for one item against the
// other still-active items on the order.
func (s *OrderService) itemRefund(order *models.Order, items []models.OrderItem, target *models.OrderItem) float64 {
	var remaining int
	var remainingValue float64
	for i := range items {
		it := &items[i]
		if it.ID == target.ID {
			continue
		}
		if it.Status == models.StatusCancelled || it.Status == models.StatusReturned {
			continue
		}
		remaining++
		remainingValue += it.Subtotal()
	}

	return ProportionalRefund(RefundInput{
		OrderSubtotal:  order.Subtotal,
		OrderDiscount:  order.Discount,
		OrderTax:       order.Tax,
		DeliveryCharge: order.DeliveryCharge,
		ItemSubtotal:   target.Subtotal(),
		RemainingItems: remaining,
		RemainingValue: remainingValue,
	})
}

func (s *OrderService) creditRefund(tx *sqlx.Tx, order *models.Order, amount float64) error {
	if amount <= 0 {
		return nil
	}
	wallet, err := s.walletRepo.GetOrCreate(order.UserID)
	if err != nil {
		return err
	}
	_, err = s.walletRepo.Credit(tx, wallet.ID, amount, models.WalletCategoryRefund, order.Reference)
	return err
}
