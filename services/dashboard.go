package services

import (
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type DashboardStats struct {
	TotalOrders           int                        `json:"totalOrders"`
	TodayOrders           int                        `json:"todayOrders"`
	OrdersByStatus        map[models.OrderStatus]int `json:"ordersByStatus"`
	TotalRevenue          float64                    `json:"totalRevenue"`
	TodayRevenue          float64                    `json:"todayRevenue"`
	TotalRevenueFormatted string                     `json:"totalRevenueFormatted"`
	TodayRevenueFormatted string                     `json:"todayRevenueFormatted"`
	MenuItems             int                        `json:"menuItems"`
	AvailableRiders       int                        `json:"availableRiders"`
	PendingBookings       int                        `json:"pendingBookings"`
}

type DashboardService struct {
	orders   *database.Repository[models.Order]
	menu     *database.Repository[models.MenuItem]
	riders   *database.Repository[models.Rider]
	bookings *database.Repository[models.TableBooking]
	now      func() time.Time
}

func NewDashboardService(store *database.Store) *DashboardService {
	return &DashboardService{
		orders:   database.NewRepository[models.Order](store, database.CollectionOrders),
		menu:     database.NewRepository[models.MenuItem](store, database.CollectionMenuItems),
		riders:   database.NewRepository[models.Rider](store, database.CollectionRiders),
		bookings: database.NewRepository[models.TableBooking](store, database.CollectionTableBookings),
		now:      time.Now,
	}
}

// Stats counts orders per status and sums revenue of every order that was
// not rejected. "Today" is the local calendar day of the server.
func (s *DashboardService) Stats() (DashboardStats, error) {
	orders, err := s.orders.All()
	if err != nil {
		return DashboardStats{}, err
	}
	menu, err := s.menu.All()
	if err != nil {
		return DashboardStats{}, err
	}
	riders, err := s.riders.All()
	if err != nil {
		return DashboardStats{}, err
	}
	bookings, err := s.bookings.All()
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		MenuItems:      len(menu),
	}
	for _, st := range models.OrderStatuses {
		stats.OrdersByStatus[st] = 0
	}

	y, m, d := s.now().Date()
	for _, o := range orders {
		status := o.Status
		if status == "" {
			status = models.StatusPending
		}
		stats.OrdersByStatus[status]++

		oy, om, od := o.CreatedAt.In(s.now().Location()).Date()
		today := oy == y && om == m && od == d
		if today {
			stats.TodayOrders++
		}
		if status == models.StatusRejected {
			continue
		}
		stats.TotalRevenue += o.Total
		if today {
			stats.TodayRevenue += o.Total
		}
	}
	stats.TotalRevenue = utils.RoundMoney(stats.TotalRevenue)
	stats.TodayRevenue = utils.RoundMoney(stats.TodayRevenue)
	stats.TotalRevenueFormatted = utils.FormatCurrencyINR(stats.TotalRevenue)
	stats.TodayRevenueFormatted = utils.FormatCurrencyINR(stats.TodayRevenue)

	for _, r := range riders {
		if r.Status == models.RiderAvailable {
			stats.AvailableRiders++
		}
	}
	for _, b := range bookings {
		if b.Status == models.BookingPending {
			stats.PendingBookings++
		}
	}
	return stats, nil
}
