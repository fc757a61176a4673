package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
)

// PaymentExpiryWorker fails gateway checkouts whose payment never
// arrived. An order left in Awaiting Payment holds no stock, so failing
// it is just a status flip that unblocks payment retry and keeps the
// awaiting set from growing without bound.
type PaymentExpiryWorker struct {
	orderRepo *repository.OrderRepository
	interval  time.Duration
	maxAge    time.Duration
}

// NewPaymentExpiryWorker constructs a PaymentExpiryWorker.
func NewPaymentExpiryWorker(orderRepo *repository.OrderRepository, interval, maxAge time.Duration) *PaymentExpiryWorker {
	return &PaymentExpiryWorker{
		orderRepo: orderRepo,
		interval:  interval,
		maxAge:    maxAge,
	}
}

// Start begins the expiry loop and listens for context cancellation.
func (w *PaymentExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("max_age", w.maxAge).Msg("Starting payment expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Payment expiry worker stopped")
			return
		}
	}
}

func (w *PaymentExpiryWorker) run() {
	stale, err := w.orderRepo.GetStaleAwaitingPayment(w.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load stale awaiting-payment orders")
		return
	}

	for i := range stale {
		order := &stale[i]
		reason := "Payment not completed in time"
		if err := w.orderRepo.UpdateStatus(w.orderRepo.DB(), order.ID, models.StatusPaymentFailed, &reason); err != nil {
			log.Error().Err(err).Str("reference", order.Reference).Msg("Failed to expire order")
			continue
		}

		items, err := w.orderRepo.GetItems(order.ID)
		if err != nil {
			log.Error().Err(err).Str("reference", order.Reference).Msg("Failed to load items of expired order")
			continue
		}
		for j := range items {
			items[j].Status = models.StatusPaymentFailed
			if err := w.orderRepo.UpdateItem(w.orderRepo.DB(), &items[j]); err != nil {
				log.Error().Err(err).Str("reference", order.Reference).Msg("Failed to expire order item")
			}
		}

		log.Info().Str("reference", order.Reference).Msg("Awaiting-payment order expired")
	}
}
