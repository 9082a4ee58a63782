package services

import "github.com/raxitsanghani/grill-food-web-sub000/models"

// Routes of the peer service that receive bridge events.
const (
	RouteMenuUpdate         = "/api/menu-update"
	RouteOrderStatusUpdate  = "/api/order-status-update"
	RouteStaffUpdate        = "/api/staff-update"
	RouteTableBookingUpdate = "/api/table-booking-update"

	RouteAdminNewOrder     = "/api/admin/webhook/new-order"
	RouteAdminTableBooking = "/api/admin/webhook/table-booking"
)

// Staff event actions.
const (
	StaffRiderSaved   = "rider-saved"
	StaffRiderDeleted = "rider-deleted"
	StaffChefSaved    = "chef-saved"
	StaffChefDeleted  = "chef-deleted"
)

type MenuEvent struct {
	EventID string           `json:"eventId,omitempty"`
	Action  string           `json:"action" binding:"required"`
	Item    *models.MenuItem `json:"item,omitempty"`
	ItemID  string           `json:"itemId,omitempty"`
}

type OrderStatusEvent struct {
	EventID    string             `json:"eventId,omitempty"`
	OrderID    string             `json:"orderId" binding:"required"`
	Status     models.OrderStatus `json:"status" binding:"required"`
	AdminNotes *string            `json:"adminNotes,omitempty"`
	Order      *models.Order      `json:"order,omitempty"`
}

type StaffEvent struct {
	EventID string        `json:"eventId,omitempty"`
	Action  string        `json:"action" binding:"required"`
	Rider   *models.Rider `json:"rider,omitempty"`
	Chef    *models.Chef  `json:"chef,omitempty"`
	ItemID  string        `json:"itemId,omitempty"`
}

type BookingEvent struct {
	EventID string              `json:"eventId,omitempty"`
	Booking models.TableBooking `json:"booking"`
}

type NewOrderEvent struct {
	EventID string       `json:"eventId,omitempty"`
	Order   models.Order `json:"order"`
}
