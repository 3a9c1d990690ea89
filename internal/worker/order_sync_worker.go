package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/repository"
)

// OrderFetcher pulls the current work-order list from the external system.
type OrderFetcher interface {
	FetchOrders(ctx context.Context) ([]models.SAPOrder, error)
}

// OrderSyncWorker periodically refreshes the local read-only projection of
// SAP work orders. It is the only writer of the projection.
type OrderSyncWorker struct {
	id       string
	sap      OrderFetcher
	orders   repository.SAPOrderRepository
	interval time.Duration
	logger   *zap.Logger
}

// NewOrderSyncWorker creates the worker with a random identifier.
func NewOrderSyncWorker(sap OrderFetcher, orders repository.SAPOrderRepository, interval time.Duration, logger *zap.Logger) *OrderSyncWorker {
	return &OrderSyncWorker{
		id:       uuid.New().String(),
		sap:      sap,
		orders:   orders,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the polling loop and should be launched in its own goroutine.
func (w *OrderSyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("order sync worker shutting down", zap.String("worker_id", w.id))
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *OrderSyncWorker) poll(ctx context.Context) {
	orders, err := w.sap.FetchOrders(ctx)
	if err != nil {
		w.logger.Warn("fetch SAP orders failed", zap.Error(err))
		return
	}
	now := time.Now().UTC()
	stored := 0
	for _, order := range orders {
		if order.OrderNumber == "" {
			continue
		}
		order.SyncedAt = now
		if err := w.orders.Upsert(ctx, &order); err != nil {
			w.logger.Warn("store SAP order failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)
			continue
		}
		stored++
	}
	if stored > 0 {
		w.logger.Info("refreshed SAP order projection", zap.Int("orders", stored))
	}
}
