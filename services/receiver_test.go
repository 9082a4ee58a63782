package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiverMenuEvents(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("customer")
	events, cancel := h.Subscribe("", 8)
	defer cancel()
	r := NewReceiver(store, h, nil)
	ctx := context.Background()

	item := models.MenuItem{ID: "menu-100", Name: "Tandoori Momos", Type: "veg", Category: "Starters", Price: 199, Image: "public/images/momos.png"}
	applied, err := r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionAdded, Item: &item})
	require.NoError(t, err)
	assert.True(t, applied)

	menu := NewMenuService(store, h, nil)
	got, err := menu.Get("menu-100")
	require.NoError(t, err)
	assert.Equal(t, "/images/momos.png", got.Image)

	item.Price = 219
	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionUpdated, Item: &item})
	require.NoError(t, err)
	got, err = menu.Get("menu-100")
	require.NoError(t, err)
	assert.Equal(t, 219.0, got.Price)

	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionDeleted, ItemID: "menu-100"})
	require.NoError(t, err)
	_, err = menu.Get("menu-100")
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Deleting an unknown item is not an error.
	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionDeleted, ItemID: "menu-100"})
	assert.NoError(t, err)

	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: "renamed", ItemID: "menu-001"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Len(t, events, 4)
	first := <-events
	assert.Equal(t, hub.EventMenuUpdated, first.Event)
}

func TestReceiverDeduplicatesByEventID(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("customer")
	events, cancel := h.Subscribe("", 8)
	defer cancel()
	r := NewReceiver(store, h, NewInbox(newSyncDB(t)))
	ctx := context.Background()

	orders := database.NewRepository[models.Order](store, database.CollectionOrders)
	created, err := orders.Create(models.Order{CustomerName: "Asha", Phone: "9876543210", Status: models.StatusPending})
	require.NoError(t, err)

	evt := OrderStatusEvent{EventID: "evt-42", OrderID: created.ID, Status: models.StatusPreparing, AdminNotes: strPtr("extra spicy")}
	applied, err := r.ApplyOrderStatusEvent(ctx, evt)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = r.ApplyOrderStatusEvent(ctx, evt)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, events, 1, "a duplicate is not re-broadcast")

	got, err := orders.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, got.Status)
	assert.Equal(t, "extra spicy", got.AdminNotes)
}

func TestReceiverOrderStatus(t *testing.T) {
	store := newTestStore(t)
	r := NewReceiver(store, hub.New("customer"), nil)
	ctx := context.Background()
	orders := database.NewRepository[models.Order](store, database.CollectionOrders)

	_, err := r.ApplyOrderStatusEvent(ctx, OrderStatusEvent{OrderID: "unknown", Status: models.StatusPreparing})
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = r.ApplyOrderStatusEvent(ctx, OrderStatusEvent{OrderID: "unknown", Status: "cooking"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// An event carrying the full order creates the local copy.
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order := models.Order{ID: "o-remote", CustomerName: "Asha", Phone: "9876543210", Total: 745.64, CreatedAt: now, UpdatedAt: now}
	_, err = r.ApplyOrderStatusEvent(ctx, OrderStatusEvent{OrderID: "o-remote", Status: models.StatusOutForDelivery, Order: &order})
	require.NoError(t, err)

	got, err := orders.Get("o-remote")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, got.Status)
	assert.InDelta(t, 745.64, got.Total, 0.0001)
}

func TestReceiverStaffAndBookings(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("customer")
	r := NewReceiver(store, h, nil)
	ctx := context.Background()
	staff := NewStaffService(store, h, nil)

	rider := models.Rider{ID: "r1", Name: "Ravi", Phone: "9000000000", Status: models.RiderAvailable}
	_, err := r.ApplyStaffEvent(ctx, StaffEvent{Action: StaffRiderSaved, Rider: &rider})
	require.NoError(t, err)
	got, err := staff.Rider("r1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)

	_, err = r.ApplyStaffEvent(ctx, StaffEvent{Action: StaffRiderDeleted, ItemID: "r1"})
	require.NoError(t, err)
	_, err = staff.Rider("r1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	chef := models.Chef{ID: "c1", Name: "Meera", Rating: 4.5, Specialties: []string{"Tandoor"}}
	_, err = r.ApplyStaffEvent(ctx, StaffEvent{Action: StaffChefSaved, Chef: &chef})
	require.NoError(t, err)
	chefs, err := staff.Chefs()
	require.NoError(t, err)
	require.Len(t, chefs, 1)
	assert.Equal(t, []string{"Tandoor"}, chefs[0].Specialties)

	booking := models.TableBooking{ID: "b1", Name: "Asha", Phone: "9876543210", Guests: 4, Status: models.BookingConfirmed}
	_, err = r.ApplyBookingEvent(ctx, BookingEvent{Booking: booking})
	require.NoError(t, err)
	_, err = r.ApplyNewBooking(ctx, BookingEvent{Booking: models.TableBooking{ID: "b2", Name: "Ravi", Phone: "9000000000", Guests: 2, Status: models.BookingPending}})
	require.NoError(t, err)

	bookings, err := NewBookingService(store, h, nil).List("98765 43210")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingConfirmed, bookings[0].Status)
}

func TestReceiverNewOrder(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("admin")
	events, cancel := h.Subscribe("", 4)
	defer cancel()
	r := NewReceiver(store, h, NewInbox(newSyncDB(t)))

	evt := NewOrderEvent{EventID: "evt-new", Order: models.Order{ID: "o1", CustomerName: "Asha", Phone: "9876543210"}}
	applied, err := r.ApplyNewOrder(context.Background(), evt)
	require.NoError(t, err)
	assert.True(t, applied)
	applied, err = r.ApplyNewOrder(context.Background(), evt)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := NewOrderService(store, h, nil).Get("o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Len(t, events, 1)

	_, err = r.ApplyNewOrder(context.Background(), NewOrderEvent{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReceiverConcurrentDuplicatesApplyOnce(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("customer")
	events, cancel := h.Subscribe("", 16)
	defer cancel()
	r := NewReceiver(store, h, NewInbox(newSyncDB(t)))

	orders := database.NewRepository[models.Order](store, database.CollectionOrders)
	created, err := orders.Create(models.Order{CustomerName: "Asha", Phone: "9876543210", Status: models.StatusPending})
	require.NoError(t, err)

	evt := OrderStatusEvent{EventID: "evt-7", OrderID: created.ID, Status: models.StatusPreparing}
	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.ApplyOrderStatusEvent(context.Background(), evt)
			assert.NoError(t, err)
			if ok {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())
	assert.Len(t, events, 1)
}

func TestReceiverReleasesFailedEvent(t *testing.T) {
	store := newTestStore(t)
	r := NewReceiver(store, hub.New("customer"), NewInbox(newSyncDB(t)))
	ctx := context.Background()

	evt := OrderStatusEvent{EventID: "evt-8", OrderID: "not-yet", Status: models.StatusPreparing}
	_, err := r.ApplyOrderStatusEvent(ctx, evt)
	assert.ErrorIs(t, err, database.ErrNotFound)

	orders := database.NewRepository[models.Order](store, database.CollectionOrders)
	_, err = orders.Put(models.Order{ID: "not-yet", CustomerName: "Asha", Status: models.StatusPending})
	require.NoError(t, err)

	applied, err := r.ApplyOrderStatusEvent(ctx, evt)
	require.NoError(t, err)
	assert.True(t, applied, "a redelivery after a failure is applied")
}

func TestReceiverDropsOlderUpdates(t *testing.T) {
	store := newTestStore(t)
	h := hub.New("customer")
	events, cancel := h.Subscribe("", 8)
	defer cancel()
	r := NewReceiver(store, h, nil)
	ctx := context.Background()

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := models.Order{ID: "o1", CustomerName: "Asha", CreatedAt: t0, UpdatedAt: t0.Add(2 * time.Minute)}
	older := newer
	older.UpdatedAt = t0.Add(time.Minute)

	_, err := r.ApplyOrderStatusEvent(ctx, OrderStatusEvent{OrderID: "o1", Status: models.StatusOutForDelivery, Order: &newer})
	require.NoError(t, err)
	applied, err := r.ApplyOrderStatusEvent(ctx, OrderStatusEvent{OrderID: "o1", Status: models.StatusPreparing, Order: &older})
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := database.NewRepository[models.Order](store, database.CollectionOrders).Get("o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, got.Status)

	item := models.MenuItem{ID: "menu-200", Name: "Paneer Tikka", Type: "veg", Category: "Starters", Price: 249, UpdatedAt: t0.Add(time.Hour)}
	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionUpdated, Item: &item})
	require.NoError(t, err)
	stale := item
	stale.Price = 199
	stale.UpdatedAt = t0
	_, err = r.ApplyMenuEvent(ctx, MenuEvent{Action: hub.ActionUpdated, Item: &stale})
	require.NoError(t, err)

	menu, err := NewMenuService(store, h, nil).Get("menu-200")
	require.NoError(t, err)
	assert.Equal(t, 249.0, menu.Price)
	assert.Len(t, events, 2, "stale events are not re-broadcast")
}
