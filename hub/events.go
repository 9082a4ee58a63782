package hub

import "github.com/raxitsanghani/grill-food-web-sub000/models"

type MenuUpdate struct {
	Action string           `json:"action"`
	Item   *models.MenuItem `json:"item,omitempty"`
	ItemID string           `json:"itemId,omitempty"`
}

type NewOrder struct {
	Order models.Order `json:"order"`
}

type OrderStatusUpdate struct {
	OrderID    string             `json:"orderId"`
	Status     models.OrderStatus `json:"status"`
	AdminNotes string             `json:"adminNotes"`
	Order      *models.Order      `json:"order,omitempty"`
}

type RiderUpdate struct {
	Action string        `json:"action"`
	Rider  *models.Rider `json:"rider,omitempty"`
	ItemID string        `json:"itemId,omitempty"`
}

type ChefUpdate struct {
	Action string       `json:"action"`
	Chef   *models.Chef `json:"chef,omitempty"`
	ItemID string       `json:"itemId,omitempty"`
}

type BookingUpdate struct {
	Booking models.TableBooking `json:"booking"`
}

// BroadcastMenuUpdated -> item is nil for deletions
func (h *Hub) BroadcastMenuUpdated(action string, item *models.MenuItem, itemID string) int {
	return h.Broadcast(Message{
		Event: EventMenuUpdated,
		Data:  MenuUpdate{Action: action, Item: item, ItemID: itemID},
	})
}

func (h *Hub) BroadcastNewOrder(order models.Order) int {
	return h.Broadcast(Message{
		Event: EventNewOrder,
		Data:  NewOrder{Order: order},
		Scope: OrderScope(order.Phone),
	})
}

func (h *Hub) BroadcastOrderStatusUpdated(order models.Order) int {
	return h.Broadcast(Message{
		Event: EventOrderStatusUpdated,
		Data: OrderStatusUpdate{
			OrderID:    order.ID,
			Status:     order.Status,
			AdminNotes: order.AdminNotes,
			Order:      &order,
		},
		Scope: OrderScope(order.Phone),
	})
}

func (h *Hub) BroadcastRiderUpdated(action string, rider *models.Rider, riderID string) int {
	return h.Broadcast(Message{
		Event: EventRiderUpdated,
		Data:  RiderUpdate{Action: action, Rider: rider, ItemID: riderID},
	})
}

func (h *Hub) BroadcastChefUpdated(action string, chef *models.Chef, chefID string) int {
	return h.Broadcast(Message{
		Event: EventChefUpdated,
		Data:  ChefUpdate{Action: action, Chef: chef, ItemID: chefID},
	})
}

func (h *Hub) BroadcastNewTableBooking(booking models.TableBooking) int {
	return h.Broadcast(Message{
		Event: EventNewTableBooking,
		Data:  BookingUpdate{Booking: booking},
		Scope: OrderScope(booking.Phone),
	})
}

func (h *Hub) BroadcastTableBookingUpdated(booking models.TableBooking) int {
	return h.Broadcast(Message{
		Event: EventTableBookingUpdated,
		Data:  BookingUpdate{Booking: booking},
		Scope: OrderScope(booking.Phone),
	})
}
