package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type LineItemInput struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// OrderInput accepts either Items or the single ItemID/Quantity form.
type OrderInput struct {
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Price    float64         `json:"price"`
	Quantity int             `json:"quantity"`
	Items    []LineItemInput `json:"items"`

	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`

	PaymentMethod  string          `json:"paymentMethod"`
	PaymentDetails json.RawMessage `json:"paymentDetails"`

	SpecialInstructions string `json:"specialInstructions"`
	DeliveryDate        string `json:"deliveryDate"`
	DeliveryTime        string `json:"deliveryTime"`
}

type StatusInput struct {
	Status     models.OrderStatus `json:"status" binding:"required"`
	AdminNotes *string            `json:"adminNotes"`
}

type OrderService struct {
	orders *database.Repository[models.Order]
	menu   *database.Repository[models.MenuItem]
	users  *database.Repository[models.User]
	riders *database.Repository[models.Rider]
	hub    Broadcaster
	bridge Notifier
	now    func() time.Time
}

func NewOrderService(store *database.Store, broadcaster Broadcaster, bridge Notifier) *OrderService {
	return &OrderService{
		orders: database.NewRepository[models.Order](store, database.CollectionOrders),
		menu:   database.NewRepository[models.MenuItem](store, database.CollectionMenuItems),
		users:  database.NewRepository[models.User](store, database.CollectionUsers),
		riders: database.NewRepository[models.Rider](store, database.CollectionRiders),
		hub:    broadcaster,
		bridge: bridge,
		now:    time.Now,
	}
}

// Create prices and stores a new pending order, records the customer
// profile, pushes new-order to local clients and forwards it to the peer.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (models.Order, error) {
	lines, err := s.resolveLines(in)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now()
	order := models.Order{
		Items:               lines,
		CustomerName:        strings.TrimSpace(in.CustomerName),
		Phone:               strings.TrimSpace(in.Phone),
		Email:               strings.TrimSpace(in.Email),
		Address:             strings.TrimSpace(in.Address),
		PaymentMethod:       strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
		PaymentDetails:      in.PaymentDetails,
		SpecialInstructions: in.SpecialInstructions,
		DeliveryDate:        in.DeliveryDate,
		DeliveryTime:        in.DeliveryTime,
		Status:              models.StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if len(in.Items) == 0 {
		order.ItemID = lines[0].ItemID
		order.ItemName = lines[0].Name
		order.Quantity = lines[0].Quantity
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCOD
	}
	order.PaymentStatus = models.PaymentStatusPending
	if order.PaymentMethod != models.PaymentMethodCOD && len(order.PaymentDetails) > 0 && string(order.PaymentDetails) != "null" {
		order.PaymentStatus = models.PaymentStatusCompleted
	}

	v := &ValidationError{}
	requireField(v, "customerName", order.CustomerName)
	requireField(v, "address", order.Address)
	if len(models.NormalizePhone(order.Phone)) < 7 {
		v.Add("phone", "phone must contain at least 7 digits")
	}
	if order.Email != "" {
		checkEmail(v, "email", order.Email)
	}
	if err := v.OrNil(); err != nil {
		return models.Order{}, err
	}

	ComputeTotals(lines).ApplyTo(&order)

	created, err := s.orders.Create(order)
	if err != nil {
		return models.Order{}, err
	}
	s.recordCustomer(created)

	s.hub.BroadcastNewOrder(created)
	publish(ctx, s.bridge, RouteAdminNewOrder, NewOrderEvent{Order: created})
	return created, nil
}

// resolveLines prices each line from the menu when the item is known and
// falls back to the submitted price otherwise.
func (s *OrderService) resolveLines(in OrderInput) ([]models.LineItem, error) {
	inputs := in.Items
	if len(inputs) == 0 {
		if in.ItemID == "" && in.ItemName == "" {
			return nil, fieldError("items", "at least one item is required")
		}
		inputs = []LineItemInput{{
			ItemID:   in.ItemID,
			Name:     in.ItemName,
			Price:    in.Price,
			Quantity: in.Quantity,
		}}
	}

	v := &ValidationError{}
	lines := make([]models.LineItem, 0, len(inputs))
	for i, li := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		line := models.LineItem{
			ItemID:   strings.TrimSpace(li.ItemID),
			Name:     strings.TrimSpace(li.Name),
			Price:    li.Price,
			Quantity: li.Quantity,
			Image:    models.NormalizeImage(li.Image),
		}
		if line.ItemID != "" {
			item, err := s.menu.Get(line.ItemID)
			switch {
			case err == nil:
				line.Price = item.Price
				if line.Name == "" {
					line.Name = item.Name
				}
				if line.Image == "" {
					line.Image = item.Image
				}
			case !errors.Is(err, database.ErrNotFound):
				return nil, err
			}
		}

		if line.Quantity < 1 {
			v.Add(field+".quantity", "quantity must be at least 1")
		}
		if line.Price <= 0 {
			v.Add(field+".price", "price must be greater than 0")
		}
		if line.Name == "" {
			v.Add(field+".name", "name is required")
		}
		lines = append(lines, line)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return lines, nil
}

// recordCustomer upserts the profile keyed by normalized phone. Failures are
// logged; the order is already stored.
func (s *OrderService) recordCustomer(order models.Order) {
	id := models.NormalizePhone(order.Phone)
	user, err := s.users.Get(id)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		utils.ErrorLogger.WithError(err).WithField("phone", id).Warn("failed to load customer profile")
		return
	}
	user.ID = id
	user.Name = order.CustomerName
	user.Phone = order.Phone
	if order.Email != "" {
		user.Email = order.Email
	}
	user.Address = order.Address
	user.OrderCount++
	user.LastOrderAt = order.CreatedAt

	if _, err := s.users.Put(user); err != nil {
		utils.ErrorLogger.WithError(err).WithField("phone", id).Warn("failed to save customer profile")
	}
}

// List returns orders newest first, optionally only those of one phone.
func (s *OrderService) List(phone string) ([]models.Order, error) {
	all, err := s.orders.All()
	if err != nil {
		return nil, err
	}

	want := models.NormalizePhone(phone)
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if want != "" && models.NormalizePhone(o.Phone) != want {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *OrderService) Get(id string) (models.Order, error) {
	return s.orders.Get(id)
}

// Customer returns the profile recorded for a phone number.
func (s *OrderService) Customer(phone string) (models.User, error) {
	id := models.NormalizePhone(phone)
	if id == "" {
		return models.User{}, fieldError("phone", "phone is required")
	}
	return s.users.Get(id)
}

// UpdateStatus runs the state machine on one order while the orders
// collection is locked.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, in StatusInput) (models.Order, error) {
	if err := ValidateStatus(in.Status); err != nil {
		return models.Order{}, fieldError("status", err.Error())
	}
	updated, err := s.orders.Modify(id, func(order *models.Order) error {
		return Transition(order, in.Status, in.AdminNotes, s.now())
	})
	if err != nil {
		return models.Order{}, err
	}

	s.hub.BroadcastOrderStatusUpdated(updated)
	notes := updated.AdminNotes
	publish(ctx, s.bridge, RouteOrderStatusUpdate, OrderStatusEvent{
		OrderID:    updated.ID,
		Status:     updated.Status,
		AdminNotes: &notes,
		Order:      &updated,
	})
	return updated, nil
}

// AssignRider records the rider delivering an order.
func (s *OrderService) AssignRider(ctx context.Context, id, riderID string) (models.Order, error) {
	if blank(riderID) {
		return models.Order{}, fieldError("riderId", "riderId is required")
	}
	if _, err := s.riders.Get(riderID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.Order{}, fieldError("riderId", "unknown rider")
		}
		return models.Order{}, err
	}

	updated, err := s.orders.Update(id, database.Record{
		"assignedRider": riderID,
		"updatedAt":     s.now(),
	})
	if err != nil {
		return models.Order{}, err
	}

	s.hub.BroadcastOrderStatusUpdated(updated)
	notes := updated.AdminNotes
	publish(ctx, s.bridge, RouteOrderStatusUpdate, OrderStatusEvent{
		OrderID:    updated.ID,
		Status:     updated.Status,
		AdminNotes: &notes,
		Order:      &updated,
	})
	return updated, nil
}
