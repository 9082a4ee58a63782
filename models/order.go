package models

import (
	"encoding/json"
	"time"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPaymentDone    OrderStatus = "payment-done"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusRejected       OrderStatus = "rejected"
)

// OrderStatuses lists every persistable status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPaymentDone,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusRejected,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"

	PaymentMethodCOD = "cod"
)

type Order struct {
	ID       string     `json:"id"`
	ItemID   string     `json:"itemId,omitempty"`
	ItemName string     `json:"itemName,omitempty"`
	Quantity int        `json:"quantity,omitempty"`
	Items    []LineItem `json:"items"`

	Subtotal       float64 `json:"subtotal"`
	GSTAmount      float64 `json:"gstAmount"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Total          float64 `json:"total"`

	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address"`

	PaymentMethod  string          `json:"paymentMethod"`
	PaymentStatus  string          `json:"paymentStatus"`
	PaymentDetails json.RawMessage `json:"paymentDetails,omitempty"`

	SpecialInstructions string `json:"specialInstructions,omitempty"`
	DeliveryDate        string `json:"deliveryDate,omitempty"`
	DeliveryTime        string `json:"deliveryTime,omitempty"`

	Status        OrderStatus `json:"status,omitempty"`
	AdminNotes    string      `json:"adminNotes,omitempty"`
	AssignedRider string      `json:"assignedRider,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o Order) Key() string { return o.ID }

// NeverUpdated reports whether the record still carries its creation stamp.
func (o Order) NeverUpdated() bool {
	return o.UpdatedAt.IsZero() || o.UpdatedAt.Equal(o.CreatedAt)
}
