package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuSeededOnFirstUse(t *testing.T) {
	svc := NewMenuService(newTestStore(t), hub.New("customer"), nil)
	items, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, items, len(database.DefaultMenu()))
}

func TestMenuByCategoryFoldsCase(t *testing.T) {
	svc := NewMenuService(newTestStore(t), hub.New("customer"), nil)
	starters, err := svc.ByCategory("sTaRtErS")
	require.NoError(t, err)
	require.NotEmpty(t, starters)
	for _, item := range starters {
		assert.Equal(t, "Starters", item.Category)
	}

	none, err := svc.ByCategory("Sushi")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMenuCreateUpdateDelete(t *testing.T) {
	store := newTestStore(t)
	b := new(mockBroadcaster)
	n := new(mockNotifier)
	b.On("BroadcastMenuUpdated", mock.Anything, mock.Anything, mock.Anything).Return(1)
	n.On("Publish", mock.Anything, RouteMenuUpdate, mock.Anything).Return(nil)

	svc := NewMenuService(store, b, n)
	ctx := context.Background()

	created, err := svc.Create(ctx, MenuItemInput{
		Name:     strPtr("Malai Kofta"),
		Type:     strPtr("Veg"),
		Category: strPtr("Mains"),
		Price:    floatPtr(279),
		Image:    strPtr(`.\public\uploads\kofta.jpg`),
	})
	require.NoError(t, err)
	assert.Equal(t, "veg", created.Type)
	assert.Equal(t, "/uploads/kofta.jpg", created.Image)

	updated, err := svc.Update(ctx, created.ID, MenuItemInput{Price: floatPtr(299), Badge: strPtr("Chef's pick")})
	require.NoError(t, err)
	assert.Equal(t, 299.0, updated.Price)
	assert.Equal(t, "Malai Kofta", updated.Name)
	assert.Equal(t, "Chef's pick", updated.Badge)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	b.AssertCalled(t, "BroadcastMenuUpdated", hub.ActionAdded, mock.Anything, created.ID)
	b.AssertCalled(t, "BroadcastMenuUpdated", hub.ActionUpdated, mock.Anything, created.ID)
	b.AssertCalled(t, "BroadcastMenuUpdated", hub.ActionDeleted, (*models.MenuItem)(nil), created.ID)
	n.AssertNumberOfCalls(t, "Publish", 3)
}

func TestMenuValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewMenuService(store, hub.New("admin"), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, MenuItemInput{Name: strPtr("Free Lunch"), Type: strPtr("vegan"), Category: strPtr("Mains"), Price: floatPtr(0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "type")

	_, err = svc.Update(ctx, "menu-001", MenuItemInput{Price: floatPtr(-1)})
	require.ErrorAs(t, err, &verr)
	item, err := svc.Get("menu-001")
	require.NoError(t, err)
	assert.Equal(t, 249.0, item.Price, "nothing is applied on validation failure")

	_, err = svc.Update(ctx, "missing", MenuItemInput{Price: floatPtr(10)})
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), database.ErrNotFound)
}

func TestBookingLifecycle(t *testing.T) {
	store := newTestStore(t)
	n := new(mockNotifier)
	n.On("Publish", mock.Anything, RouteAdminTableBooking, mock.Anything).Return(nil).Once()
	n.On("Publish", mock.Anything, RouteTableBookingUpdate, mock.Anything).Return(nil).Once()
	svc := NewBookingService(store, hub.New("test"), n)
	ctx := context.Background()

	_, err := svc.Create(ctx, BookingInput{Name: "Asha", Phone: "98", Guests: 0})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "guests")
	assert.Contains(t, verr.Fields, "date")

	booking, err := svc.Create(ctx, BookingInput{Name: "Asha", Phone: "9876543210", Guests: 4, Date: "2024-05-02", Time: "19:30"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)

	_, err = svc.UpdateStatus(ctx, booking.ID, BookingStatusInput{Status: "seated"})
	require.ErrorAs(t, err, &verr)

	updated, err := svc.UpdateStatus(ctx, booking.ID, BookingStatusInput{Status: "Confirmed"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	n.AssertExpectations(t)
}

func TestStaffRiders(t *testing.T) {
	store := newTestStore(t)
	svc := NewStaffService(store, hub.New("admin"), nil)
	ctx := context.Background()

	_, err := svc.CreateRider(ctx, RiderInput{Name: strPtr("Ravi"), Phone: strPtr("9000000000"), Status: strPtr("asleep")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	rider, err := svc.CreateRider(ctx, RiderInput{Name: strPtr("Ravi"), Phone: strPtr("9000000000")})
	require.NoError(t, err)
	assert.Equal(t, models.RiderAvailable, rider.Status)

	moved, err := svc.UpdateRiderLocation(ctx, rider.ID, LocationInput{Lat: floatPtr(12.97), Lng: floatPtr(77.59)})
	require.NoError(t, err)
	assert.Equal(t, 12.97, moved.Lat)
	assert.Equal(t, "Ravi", moved.Name)

	_, err = svc.UpdateRiderLocation(ctx, rider.ID, LocationInput{Lat: floatPtr(100), Lng: floatPtr(0)})
	require.ErrorAs(t, err, &verr)

	busy, err := svc.UpdateRider(ctx, rider.ID, RiderInput{Status: strPtr("busy")})
	require.NoError(t, err)
	assert.Equal(t, models.RiderBusy, busy.Status)

	require.NoError(t, svc.DeleteRider(ctx, rider.ID))
	riders, err := svc.Riders()
	require.NoError(t, err)
	assert.Empty(t, riders)
}

func TestStaffChefs(t *testing.T) {
	svc := NewStaffService(newTestStore(t), hub.New("admin"), nil)
	ctx := context.Background()

	_, err := svc.CreateChef(ctx, ChefInput{Name: strPtr("Meera"), Rating: floatPtr(7)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	chef, err := svc.CreateChef(ctx, ChefInput{Name: strPtr("Meera"), Rating: floatPtr(4.8), Specialties: &[]string{"Tandoor", "Curries"}})
	require.NoError(t, err)

	updated, err := svc.UpdateChef(ctx, chef.ID, ChefInput{Bio: strPtr("Twenty years on the grill")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tandoor", "Curries"}, updated.Specialties)
	assert.Equal(t, "Twenty years on the grill", updated.Bio)

	require.NoError(t, svc.DeleteChef(ctx, chef.ID))
	_, err = svc.Chef(chef.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	store := newTestStore(t)
	orders := NewOrderService(store, hub.New("admin"), nil)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	orders.now = func() time.Time { return day.Add(-24 * time.Hour) }
	_, err := orders.Create(ctx, validOrderInput())
	require.NoError(t, err)

	orders.now = func() time.Time { return day }
	today, err := orders.Create(ctx, validOrderInput())
	require.NoError(t, err)
	rejected, err := orders.Create(ctx, validOrderInput())
	require.NoError(t, err)
	_, err = orders.UpdateStatus(ctx, rejected.ID, StatusInput{Status: models.StatusRejected})
	require.NoError(t, err)

	dash := NewDashboardService(store)
	dash.now = func() time.Time { return day.Add(time.Hour) }
	stats, err := dash.Stats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 2, stats.TodayOrders)
	assert.Equal(t, 2, stats.OrdersByStatus[models.StatusPending])
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusRejected])
	assert.Equal(t, 0, stats.OrdersByStatus[models.StatusDelivered])
	assert.InDelta(t, 2*745.64, stats.TotalRevenue, 0.001)
	assert.InDelta(t, today.Total, stats.TodayRevenue, 0.001)
	assert.Equal(t, "₹1,491.28", stats.TotalRevenueFormatted)
	assert.Equal(t, len(database.DefaultMenu()), stats.MenuItems)
}

func TestMenuConcurrentFieldUpdatesBothPersist(t *testing.T) {
	svc := NewMenuService(newTestStore(t), hub.New("admin"), nil)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		name := "Paneer Tikka " + string(rune('A'+round))
		price := float64(200 + round)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, "menu-001", MenuItemInput{Name: &name})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, "menu-001", MenuItemInput{Price: &price})
			assert.NoError(t, err)
		}()
		wg.Wait()

		got, err := svc.Get("menu-001")
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, price, got.Price)
	}
}
