package reconcile

import (
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
)

// InferMode selects how a status is shown when the record has none.
type InferMode int

const (
	// InferNone shows the stored status, or StatusSyncing when missing.
	InferNone InferMode = iota
	// InferElapsed guesses the status from the time since creation when it
	// is missing or still the untouched initial pending.
	InferElapsed
)

const StatusSyncing = "syncing"

func ParseInferMode(s string) (InferMode, bool) {
	switch s {
	case "none", "":
		return InferNone, true
	case "elapsed":
		return InferElapsed, true
	}
	return InferNone, false
}

func DisplayStatus(order models.Order, mode InferMode, now time.Time) string {
	if mode == InferElapsed {
		if order.Status == "" || (order.Status == models.StatusPending && order.NeverUpdated()) {
			return string(inferFromElapsed(now.Sub(order.CreatedAt)))
		}
	}
	if order.Status == "" {
		return StatusSyncing
	}
	return string(order.Status)
}

func inferFromElapsed(elapsed time.Duration) models.OrderStatus {
	switch {
	case elapsed < 5*time.Minute:
		return models.StatusPending
	case elapsed < 20*time.Minute:
		return models.StatusPreparing
	case elapsed < 45*time.Minute:
		return models.StatusOutForDelivery
	default:
		return models.StatusDelivered
	}
}
