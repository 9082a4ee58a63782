package services

import (
	"context"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// Broadcaster is the push side of a service; *hub.Hub implements it.
type Broadcaster interface {
	BroadcastMenuUpdated(action string, item *models.MenuItem, itemID string) int
	BroadcastNewOrder(order models.Order) int
	BroadcastOrderStatusUpdated(order models.Order) int
	BroadcastRiderUpdated(action string, rider *models.Rider, riderID string) int
	BroadcastChefUpdated(action string, chef *models.Chef, chefID string) int
	BroadcastNewTableBooking(booking models.TableBooking) int
	BroadcastTableBookingUpdated(booking models.TableBooking) int
}

// Notifier forwards an event to the peer service. Callers log a returned
// error and carry on; the local mutation is never undone.
type Notifier interface {
	Publish(ctx context.Context, route string, event any) error
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, string, any) error { return nil }

// NopNotifier drops every event.
var NopNotifier Notifier = nopNotifier{}

func publish(ctx context.Context, n Notifier, route string, event any) {
	if n == nil {
		return
	}
	if err := n.Publish(ctx, route, event); err != nil {
		utils.ErrorLogger.WithError(err).WithField("route", route).Warn("peer notification failed")
	}
}
