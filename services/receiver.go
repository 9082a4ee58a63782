package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
)

// Receiver applies bridge events from the peer service to the local store
// and re-broadcasts them to local clients. Events already recorded in the
// inbox are acknowledged without being applied again.
type Receiver struct {
	menu     *database.Repository[models.MenuItem]
	orders   *database.Repository[models.Order]
	riders   *database.Repository[models.Rider]
	chefs    *database.Repository[models.Chef]
	bookings *database.Repository[models.TableBooking]
	hub      Broadcaster
	inbox    *Inbox
	now      func() time.Time
}

func NewReceiver(store *database.Store, broadcaster Broadcaster, inbox *Inbox) *Receiver {
	return &Receiver{
		menu:     database.NewRepository[models.MenuItem](store, database.CollectionMenuItems),
		orders:   database.NewRepository[models.Order](store, database.CollectionOrders),
		riders:   database.NewRepository[models.Rider](store, database.CollectionRiders),
		chefs:    database.NewRepository[models.Chef](store, database.CollectionChefs),
		bookings: database.NewRepository[models.TableBooking](store, database.CollectionTableBookings),
		hub:      broadcaster,
		inbox:    inbox,
		now:      time.Now,
	}
}

// once runs apply unless eventID was claimed before. It reports whether
// apply ran. A failed apply releases the claim.
func (r *Receiver) once(ctx context.Context, eventID, action string, apply func() error) (bool, error) {
	claimed, err := r.inbox.Claim(ctx, eventID, action)
	if err != nil {
		return false, fmt.Errorf("inbox claim: %w", err)
	}
	if !claimed {
		utils.InfoLogger.WithFields(logrus.Fields{
			"event_id": eventID,
			"action":   action,
		}).Info("duplicate bridge event ignored")
		return false, nil
	}
	if err := apply(); err != nil {
		if rerr := r.inbox.Release(ctx, eventID); rerr != nil {
			utils.ErrorLogger.WithError(rerr).WithField("event_id", eventID).Warn("failed to release bridge event")
		}
		return false, err
	}
	return true, nil
}

var errStaleEvent = errors.New("stale event")

// putNewer stores v under id unless the stored copy was updated after v.
// It reports whether v was stored.
func putNewer[T any](repo *database.Repository[T], id string, v T, updatedAt func(T) time.Time) (T, bool, error) {
	stored, err := repo.Modify(id, func(cur *T) error {
		if at := updatedAt(v); !at.IsZero() && updatedAt(*cur).After(at) {
			return errStaleEvent
		}
		*cur = v
		return nil
	})
	switch {
	case errors.Is(err, errStaleEvent):
		var zero T
		return zero, false, nil
	case errors.Is(err, database.ErrNotFound):
		stored, err = repo.Put(v)
	}
	return stored, err == nil, err
}

func logStale(eventID, action, id string) {
	utils.InfoLogger.WithFields(logrus.Fields{
		"event_id": eventID,
		"action":   action,
		"id":       id,
	}).Info("bridge event older than stored copy ignored")
}

func (r *Receiver) ApplyMenuEvent(ctx context.Context, evt MenuEvent) (bool, error) {
	return r.once(ctx, evt.EventID, "menu-"+evt.Action, func() error {
		switch evt.Action {
		case hub.ActionAdded, hub.ActionUpdated:
			if evt.Item == nil || evt.Item.ID == "" {
				return fieldError("item", "item with id is required")
			}
			item := *evt.Item
			item.Image = models.NormalizeImage(item.Image)
			stored, fresh, err := putNewer(r.menu, item.ID, item, func(m models.MenuItem) time.Time { return m.UpdatedAt })
			if err != nil {
				return err
			}
			if !fresh {
				logStale(evt.EventID, "menu-"+evt.Action, item.ID)
				return nil
			}
			r.hub.BroadcastMenuUpdated(evt.Action, &stored, stored.ID)
		case hub.ActionDeleted:
			id := evt.ItemID
			if id == "" && evt.Item != nil {
				id = evt.Item.ID
			}
			if id == "" {
				return fieldError("itemId", "itemId is required")
			}
			if err := r.menu.Delete(id); err != nil && !errors.Is(err, database.ErrNotFound) {
				return err
			}
			r.hub.BroadcastMenuUpdated(hub.ActionDeleted, nil, id)
		default:
			return fieldError("action", fmt.Sprintf("%v: %q", ErrInvalidAction, evt.Action))
		}
		return nil
	})
}

// ApplyOrderStatusEvent mirrors the peer's order when the event carries it
// and otherwise patches status and notes of the local copy. A mirrored order
// older than the local copy is dropped.
func (r *Receiver) ApplyOrderStatusEvent(ctx context.Context, evt OrderStatusEvent) (bool, error) {
	if err := ValidateStatus(evt.Status); err != nil {
		return false, fieldError("status", err.Error())
	}
	return r.once(ctx, evt.EventID, "order-status", func() error {
		var (
			updated models.Order
			err     error
		)
		if evt.Order != nil {
			order := *evt.Order
			order.ID = evt.OrderID
			order.Status = evt.Status
			if evt.AdminNotes != nil {
				order.AdminNotes = *evt.AdminNotes
			}
			var fresh bool
			updated, fresh, err = putNewer(r.orders, order.ID, order, func(o models.Order) time.Time { return o.UpdatedAt })
			if err == nil && !fresh {
				logStale(evt.EventID, "order-status", order.ID)
				return nil
			}
		} else {
			patch := database.Record{
				"status":    string(evt.Status),
				"updatedAt": r.now(),
			}
			if evt.AdminNotes != nil {
				patch["adminNotes"] = *evt.AdminNotes
			}
			updated, err = r.orders.Update(evt.OrderID, patch)
		}
		if err != nil {
			return err
		}
		r.hub.BroadcastOrderStatusUpdated(updated)
		return nil
	})
}

func (r *Receiver) ApplyStaffEvent(ctx context.Context, evt StaffEvent) (bool, error) {
	return r.once(ctx, evt.EventID, evt.Action, func() error {
		switch evt.Action {
		case StaffRiderSaved:
			if evt.Rider == nil || evt.Rider.ID == "" {
				return fieldError("rider", "rider with id is required")
			}
			stored, err := r.riders.Put(*evt.Rider)
			if err != nil {
				return err
			}
			r.hub.BroadcastRiderUpdated(hub.ActionUpdated, &stored, stored.ID)
		case StaffRiderDeleted:
			if err := r.riders.Delete(evt.ItemID); err != nil && !errors.Is(err, database.ErrNotFound) {
				return err
			}
			r.hub.BroadcastRiderUpdated(hub.ActionDeleted, nil, evt.ItemID)
		case StaffChefSaved:
			if evt.Chef == nil || evt.Chef.ID == "" {
				return fieldError("chef", "chef with id is required")
			}
			stored, err := r.chefs.Put(*evt.Chef)
			if err != nil {
				return err
			}
			r.hub.BroadcastChefUpdated(hub.ActionUpdated, &stored, stored.ID)
		case StaffChefDeleted:
			if err := r.chefs.Delete(evt.ItemID); err != nil && !errors.Is(err, database.ErrNotFound) {
				return err
			}
			r.hub.BroadcastChefUpdated(hub.ActionDeleted, nil, evt.ItemID)
		default:
			return fieldError("action", fmt.Sprintf("%v: %q", ErrInvalidAction, evt.Action))
		}
		return nil
	})
}

// ApplyBookingEvent handles a booking status change made by the admin.
func (r *Receiver) ApplyBookingEvent(ctx context.Context, evt BookingEvent) (bool, error) {
	if evt.Booking.ID == "" {
		return false, fieldError("booking", "booking with id is required")
	}
	return r.once(ctx, evt.EventID, "table-booking-updated", func() error {
		stored, err := r.bookings.Put(evt.Booking)
		if err != nil {
			return err
		}
		r.hub.BroadcastTableBookingUpdated(stored)
		return nil
	})
}

// ApplyNewOrder stores an order created on the customer side.
func (r *Receiver) ApplyNewOrder(ctx context.Context, evt NewOrderEvent) (bool, error) {
	if evt.Order.ID == "" {
		return false, fieldError("order", "order with id is required")
	}
	order := evt.Order
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if err := ValidateStatus(order.Status); err != nil {
		return false, fieldError("order.status", err.Error())
	}
	return r.once(ctx, evt.EventID, "new-order", func() error {
		stored, err := r.orders.Put(order)
		if err != nil {
			return err
		}
		r.hub.BroadcastNewOrder(stored)
		return nil
	})
}

// ApplyNewBooking stores a booking created on the customer side.
func (r *Receiver) ApplyNewBooking(ctx context.Context, evt BookingEvent) (bool, error) {
	if evt.Booking.ID == "" {
		return false, fieldError("booking", "booking with id is required")
	}
	return r.once(ctx, evt.EventID, "new-table-booking", func() error {
		stored, err := r.bookings.Put(evt.Booking)
		if err != nil {
			return err
		}
		r.hub.BroadcastNewTableBooking(stored)
		return nil
	})
}
