package reconcile

import (
	"encoding/json"

	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// Event is one websocket frame as received from a service hub.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OrderBook is the local list of orders, newest first.
type OrderBook struct {
	*Cache[models.Order]
}

func NewOrderBook() *OrderBook {
	return &OrderBook{Cache: NewCache(models.Order.Key)}
}

func (b *OrderBook) ApplyEvent(evt Event) Outcome {
	switch evt.Event {
	case hub.EventNewOrder:
		var data hub.NewOrder
		if !decode(evt, &data) || data.Order.ID == "" {
			return Ignored
		}
		b.Insert(data.Order, true)
		return Applied

	case hub.EventOrderStatusUpdated:
		var data hub.OrderStatusUpdate
		if !decode(evt, &data) || data.OrderID == "" {
			return Ignored
		}
		if data.Order != nil && data.Order.ID == data.OrderID {
			if b.Replace(*data.Order) {
				return Applied
			}
			return NeedsResync
		}
		ok := b.Update(data.OrderID, func(o *models.Order) {
			o.Status = data.Status
			o.AdminNotes = data.AdminNotes
		})
		if !ok {
			return NeedsResync
		}
		return Applied
	}
	return Ignored
}

// MenuBook is the local menu in server order.
type MenuBook struct {
	*Cache[models.MenuItem]
}

func NewMenuBook() *MenuBook {
	return &MenuBook{Cache: NewCache(models.MenuItem.Key)}
}

func (b *MenuBook) ApplyEvent(evt Event) Outcome {
	if evt.Event != hub.EventMenuUpdated {
		return Ignored
	}
	var data hub.MenuUpdate
	if !decode(evt, &data) {
		return Ignored
	}

	switch data.Action {
	case hub.ActionAdded:
		if data.Item == nil {
			return NeedsResync
		}
		b.Insert(*data.Item, false)
		return Applied
	case hub.ActionUpdated:
		if data.Item == nil || !b.Replace(*data.Item) {
			return NeedsResync
		}
		return Applied
	case hub.ActionDeleted:
		id := data.ItemID
		if id == "" && data.Item != nil {
			id = data.Item.ID
		}
		b.Remove(id)
		return Applied
	}
	return Ignored
}

func decode(evt Event, dst any) bool {
	if err := json.Unmarshal(evt.Data, dst); err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", evt.Event).Warn("malformed push event")
		return false
	}
	return true
}
