package services

import (
	"context"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// OutboxDispatcher polls the bridge outbox and redelivers due events.
type OutboxDispatcher struct {
	Bridge    *Bridge
	Interval  time.Duration
	BatchSize int
}

func NewOutboxDispatcher(bridge *Bridge, interval time.Duration) *OutboxDispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxDispatcher{
		Bridge:    bridge,
		Interval:  interval,
		BatchSize: 100,
	}
}

// Run blocks until ctx is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) error {
	if !d.Bridge.Durable() {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	utils.InfoLogger.WithField("interval", d.Interval.String()).Info("outbox dispatcher started")
	for {
		select {
		case <-ctx.Done():
			utils.InfoLogger.Info("outbox dispatcher stopped")
			return nil
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *OutboxDispatcher) tick(ctx context.Context) {
	delivered, err := d.Bridge.DispatchPending(ctx, d.BatchSize)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("outbox dispatch failed")
		return
	}
	if delivered > 0 {
		pending, _ := d.Bridge.Pending(ctx)
		utils.InfoLogger.WithField("delivered", delivered).WithField("pending", pending).Info("outbox events redelivered")
	}
}
