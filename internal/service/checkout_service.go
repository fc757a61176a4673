package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/cache"
	"github.com/VastraLabs/vastra_api/internal/database"
	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
	"github.com/VastraLabs/vastra_api/pkg/razorpay"
)

// CheckoutService turns a cart into an order. COD and wallet orders commit
// in a single transaction; gateway orders are persisted in "Awaiting
// Payment" and only take stock and coupon usage once the payment signature
// verifies.
type CheckoutService struct {
	db            *sqlx.DB
	orderRepo     *repository.OrderRepository
	cartRepo      *repository.CartRepository
	productRepo   *repository.ProductRepository
	couponRepo    *repository.CouponRepository
	walletRepo    *repository.WalletRepository
	addressRepo   *repository.AddressRepository
	couponSvc     *CouponService
	checkoutCache *cache.CheckoutCache
	gateway       *razorpay.Client
	gatewayKeyID  string
	gatewaySecret string
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(
	db *sqlx.DB,
	orderRepo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	productRepo *repository.ProductRepository,
	couponRepo *repository.CouponRepository,
	walletRepo *repository.WalletRepository,
	addressRepo *repository.AddressRepository,
	couponSvc *CouponService,
	checkoutCache *cache.CheckoutCache,
	gateway *razorpay.Client,
	gatewayKeyID, gatewaySecret string,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		couponRepo:    couponRepo,
		walletRepo:    walletRepo,
		addressRepo:   addressRepo,
		couponSvc:     couponSvc,
		checkoutCache: checkoutCache,
		gateway:       gateway,
		gatewayKeyID:  gatewayKeyID,
		gatewaySecret: gatewaySecret,
	}
}

// GatewayPayment is what the client needs to open the payment widget.
type GatewayPayment struct {
	KeyID          string `json:"keyId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	AmountPaise    int64  `json:"amountPaise"`
	Currency       string `json:"currency"`
}

// PlaceOrderResult is the checkout outcome. Payment is set only for
// gateway orders still awaiting client-side payment.
type PlaceOrderResult struct {
	Order   *models.Order   `json:"order"`
	Payment *GatewayPayment `json:"payment,omitempty"`
}

// checkoutDraft is the validated input assembled before any write.
type checkoutDraft struct {
	cart    *models.Cart
	items   []models.CartItem
	address *models.Address
	applied *models.AppliedCoupon
	totals  Totals
}

// prepare loads and validates everything checkout needs: a non-empty cart
// of available lines, the shipping address, and the pending coupon.
func (s *CheckoutService) prepare(ctx context.Context, userID, addressID int) (*checkoutDraft, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.GetItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, utils.ErrEmptyCart
	}
	for _, it := range items {
		if !it.IsListed || it.IsBlocked {
			return nil, utils.ErrUnavailableItem
		}
		if it.Quantity > it.Stock {
			return nil, &utils.StockError{
				Product:   it.ProductName,
				Size:      it.Size,
				Available: it.Stock,
				Err:       utils.ErrInsufficientStock,
			}
		}
	}

	address, err := s.addressRepo.FindByIDAndUser(addressID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAddressNotFound
		}
		return nil, err
	}

	applied, err := s.couponSvc.Pending(ctx, userID)
	if err != nil {
		return nil, err
	}

	var discount float64
	if applied != nil {
		discount = applied.DiscountAmount
	}

	return &checkoutDraft{
		cart:    cart,
		items:   items,
		address: address,
		applied: applied,
		totals:  ComputeTotals(items, discount),
	}, nil
}

// buildOrder maps the draft onto an order row with address and coupon
// snapshots. Status and reference are filled in by the caller.
func (d *checkoutDraft) buildOrder(userID int, method models.PaymentMethod) *models.Order {
	o := &models.Order{
		UserID:         userID,
		PaymentMethod:  method,
		Subtotal:       d.totals.Subtotal,
		DeliveryCharge: d.totals.DeliveryCharge,
		Tax:            d.totals.Tax,
		Discount:       d.totals.Discount,
		Total:          d.totals.Total,
		ShipName:       d.address.Name,
		ShipPhone:      d.address.Phone,
		ShipLine1:      d.address.Line1,
		ShipLine2:      d.address.Line2,
		ShipCity:       d.address.City,
		ShipState:      d.address.State,
		ShipPincode:    d.address.Pincode,
	}
	if d.applied != nil {
		o.CouponCode = &d.applied.Code
		t := d.applied.Type
		o.CouponType = &t
		o.CouponValue = &d.applied.Value
		o.CouponDiscount = &d.applied.DiscountAmount
	}
	return o
}

// PlaceOrder runs checkout for the given payment method.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID, addressID int, method models.PaymentMethod) (*PlaceOrderResult, error) {
	draft, err := s.prepare(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	switch method {
	case models.PaymentCOD, models.PaymentWallet:
		return s.placeDirect(ctx, userID, method, draft)
	case models.PaymentRazorpay:
		return s.placeGateway(ctx, userID, draft)
	default:
		return nil, utils.ErrInvalidPayment
	}
}

// placeDirect commits a COD or wallet order atomically: stock, wallet
// debit, coupon usage, order rows and cart clearing all move together or
// not at all.
func (s *CheckoutService) placeDirect(ctx context.Context, userID int, method models.PaymentMethod, draft *checkoutDraft) (*PlaceOrderResult, error) {
	var wallet *models.Wallet
	if method == models.PaymentWallet {
		w, err := s.walletRepo.GetOrCreate(userID)
		if err != nil {
			return nil, err
		}
		wallet = w
	}

	order := draft.buildOrder(userID, method)
	order.Status = models.StatusPending

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		ref, err := s.orderRepo.GenerateReference(tx)
		if err != nil {
			return err
		}
		order.Reference = ref

		for _, it := range draft.items {
			ok, err := s.productRepo.DecrementStockIfAvailable(tx, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.stockUnavailable(it.VariantID, it.ProductName, it.Size)
			}
		}

		if wallet != nil {
			if _, err := s.walletRepo.Debit(tx, wallet.ID, order.Total, models.WalletCategoryPayment, ref); err != nil {
				return err
			}
		}

		if draft.applied != nil {
			// IncrementUsage locks the coupon row, serializing concurrent
			// checkouts with the same code; the per-user count below then
			// sees every order committed before us.
			ok, err := s.couponRepo.IncrementUsage(tx, draft.applied.CouponID)
			if err != nil {
				return err
			}
			if !ok {
				return utils.ErrCouponLimitReached
			}
			if draft.applied.PerUserLimit > 0 {
				used, err := s.couponRepo.CountUserUsage(tx, userID, draft.applied.Code)
				if err != nil {
					return err
				}
				if used >= draft.applied.PerUserLimit {
					return utils.ErrCouponLimitReached
				}
			}
		}

		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		if err := s.createItems(tx, order, draft.items, models.StatusPending); err != nil {
			return err
		}
		return s.cartRepo.Clear(tx, draft.cart.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.checkoutCache.ClearAppliedCoupon(ctx, userID); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Failed to clear applied coupon")
	}

	log.Info().Str("reference", order.Reference).Str("method", string(method)).
		Float64("total", order.Total).Msg("Order placed")
	return &PlaceOrderResult{Order: order}, nil
}

// placeGateway persists the order in Awaiting Payment and creates the
// gateway order. Stock, coupon usage and the cart are untouched until the
// payment verifies.
func (s *CheckoutService) placeGateway(ctx context.Context, userID int, draft *checkoutDraft) (*PlaceOrderResult, error) {
	order := draft.buildOrder(userID, models.PaymentRazorpay)
	order.Status = models.StatusAwaitingPayment

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		ref, err := s.orderRepo.GenerateReference(tx)
		if err != nil {
			return err
		}
		order.Reference = ref
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		return s.createItems(tx, order, draft.items, models.StatusAwaitingPayment)
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.openGatewayOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: order, Payment: payment}, nil
}

// openGatewayOrder creates a Razorpay order for the persisted order and
// caches the attempt. On gateway failure the order is marked Payment
// Failed so it can be retried.
func (s *CheckoutService) openGatewayOrder(ctx context.Context, order *models.Order) (*GatewayPayment, error) {
	gwOrder, err := s.gateway.CreateOrder(ctx, utils.ToPaise(order.Total), "INR", utils.GenerateReceiptID(order.Reference))
	if err != nil {
		log.Error().Err(err).Str("reference", order.Reference).Msg("Gateway order creation failed")
		if uerr := s.orderRepo.UpdateStatus(s.db, order.ID, models.StatusPaymentFailed, nil); uerr != nil {
			log.Error().Err(uerr).Str("reference", order.Reference).Msg("Failed to mark order payment-failed")
		}
		return nil, utils.ErrGatewayUnavailable
	}

	if err := s.orderRepo.SetGatewayRefs(s.db, order.ID, &gwOrder.ID, nil); err != nil {
		return nil, err
	}
	order.GatewayOrderID = &gwOrder.ID

	pending := &cache.PendingGatewayCheckout{
		GatewayOrderID: gwOrder.ID,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         order.Total,
		CreatedAt:      time.Now(),
	}
	if err := s.checkoutCache.SetPendingGateway(ctx, pending); err != nil {
		log.Warn().Err(err).Str("gateway_order_id", gwOrder.ID).Msg("Failed to cache pending checkout")
	}

	return &GatewayPayment{
		KeyID:          s.gatewayKeyID,
		GatewayOrderID: gwOrder.ID,
		AmountPaise:    utils.ToPaise(order.Total),
		Currency:       "INR",
	}, nil
}

// stockUnavailable builds the checkout stock error with the live
// remaining count for the variant that could not be decremented.
func (s *CheckoutService) stockUnavailable(variantID int, product, size string) error {
	available := 0
	if v, err := s.productRepo.GetVariant(variantID); err == nil {
		available = v.Stock
	}
	return &utils.StockError{
		Product:   product,
		Size:      size,
		Available: available,
		Err:       utils.ErrStockUnavailable,
	}
}

// createItems snapshots the cart lines as order items.
func (s *CheckoutService) createItems(tx *sqlx.Tx, order *models.Order, items []models.CartItem, status models.OrderStatus) error {
	order.Items = order.Items[:0]
	for _, it := range items {
		oi := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			ProductName: it.ProductName,
			Size:        it.Size,
			Price:       it.SalePrice,
			Quantity:    it.Quantity,
			Status:      status,
		}
		if err := s.orderRepo.CreateItem(tx, &oi); err != nil {
			return err
		}
		order.Items = append(order.Items, oi)
	}
	return nil
}

// VerifyPayment settles a gateway checkout. On a valid signature the order
// and its items move to Pending, stock is taken and the coupon usage
// committed in one transaction; an invalid signature marks the order
// Payment Failed.
func (s *CheckoutService) VerifyPayment(ctx context.Context, userID int, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	order, err := s.orderRepo.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, utils.ErrOrderNotFound
	}
	if order.Status != models.StatusAwaitingPayment {
		return nil, utils.ErrInvalidPayment
	}

	if !razorpay.VerifyPaymentSignature(gatewayOrderID, paymentID, signature, s.gatewaySecret) {
		reason := "Payment signature verification failed"
		if uerr := s.orderRepo.UpdateStatus(s.db, order.ID, models.StatusPaymentFailed, &reason); uerr != nil {
			log.Error().Err(uerr).Str("reference", order.Reference).Msg("Failed to mark order payment-failed")
		}
		s.failItems(order.ID)
		_ = s.checkoutCache.ClearPendingGateway(ctx, gatewayOrderID)
		log.Warn().Str("reference", order.Reference).Msg("Payment signature mismatch")
		return nil, utils.ErrSignatureMismatch
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items, err := s.orderRepo.GetItemsLocked(tx, order.ID)
		if err != nil {
			return err
		}

		for _, it := range items {
			ok, err := s.productRepo.DecrementStockIfAvailable(tx, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.stockUnavailable(it.VariantID, it.ProductName, it.Size)
			}
		}

		if order.CouponCode != nil {
			coupon, err := s.couponRepo.GetByCode(*order.CouponCode)
			if err == nil {
				if ok, err := s.couponRepo.IncrementUsage(tx, coupon.ID); err != nil {
					return err
				} else if !ok {
					log.Warn().Str("coupon", coupon.Code).Str("reference", order.Reference).
						Msg("Coupon usage cap hit after payment, honoring discount")
				}
			}
		}

		if err := s.orderRepo.SetGatewayRefs(tx, order.ID, nil, &paymentID); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateStatus(tx, order.ID, models.StatusPending, nil); err != nil {
			return err
		}
		for i := range items {
			items[i].Status = models.StatusPending
			if err := s.orderRepo.UpdateItem(tx, &items[i]); err != nil {
				return err
			}
		}

		cart, err := s.cartRepo.GetOrCreate(userID)
		if err != nil {
			return err
		}
		return s.cartRepo.Clear(tx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, utils.ErrStockUnavailable) {
			reason := "Stock ran out before payment completed"
			if uerr := s.orderRepo.UpdateStatus(s.db, order.ID, models.StatusPaymentFailed, &reason); uerr != nil {
				log.Error().Err(uerr).Str("reference", order.Reference).Msg("Failed to mark order payment-failed")
			}
			s.failItems(order.ID)
		}
		return nil, err
	}

	_ = s.checkoutCache.ClearPendingGateway(ctx, gatewayOrderID)
	if err := s.checkoutCache.ClearAppliedCoupon(ctx, userID); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Failed to clear applied coupon")
	}

	log.Info().Str("reference", order.Reference).Str("gateway_order_id", gatewayOrderID).
		Msg("Payment verified, order confirmed")
	return s.reload(order.ID)
}

// RetryPayment opens a fresh gateway order for a checkout whose payment
// failed or never completed.
func (s *CheckoutService) RetryPayment(ctx context.Context, userID, orderID int) (*PlaceOrderResult, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	if order.PaymentMethod != models.PaymentRazorpay {
		return nil, utils.ErrInvalidPayment
	}
	if order.Status != models.StatusAwaitingPayment && order.Status != models.StatusPaymentFailed {
		return nil, utils.ErrInvalidPayment
	}

	if order.Status == models.StatusPaymentFailed {
		err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
			if err := s.orderRepo.UpdateStatus(tx, order.ID, models.StatusAwaitingPayment, nil); err != nil {
				return err
			}
			items, err := s.orderRepo.GetItemsLocked(tx, order.ID)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].Status = models.StatusAwaitingPayment
				if err := s.orderRepo.UpdateItem(tx, &items[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		order.Status = models.StatusAwaitingPayment
	}

	payment, err := s.openGatewayOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: order, Payment: payment}, nil
}

// failItems moves all items of an order to Payment Failed, outside any
// transaction. Used on the failure paths where the order row is already
// marked.
func (s *CheckoutService) failItems(orderID int) {
	items, err := s.orderRepo.GetItems(orderID)
	if err != nil {
		log.Error().Err(err).Int("order_id", orderID).Msg("Failed to load items for failure marking")
		return
	}
	for i := range items {
		items[i].Status = models.StatusPaymentFailed
		if err := s.orderRepo.UpdateItem(s.db, &items[i]); err != nil {
			log.Error().Err(err).Int("order_id", orderID).Msg("Failed to mark item payment-failed")
		}
	}
}

// reload fetches an order with its items.
func (s *CheckoutService) reload(orderID int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// appendHistory records a status change on an item's history log.
func appendHistory(it *models.OrderItem, from, to models.OrderStatus, reason string) {
	var history []models.StatusChange
	if len(it.StatusHistory) > 0 {
		_ = json.Unmarshal(it.StatusHistory, &history)
	}
	history = append(history, models.StatusChange{From: from, To: to, Reason: reason, At: time.Now()})
	data, err := json.Marshal(history)
	if err != nil {
		return
	}
	it.StatusHistory = data
}
