package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/controllers"
	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/middlewares"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// Deps is everything one service process hands to its router.
type Deps struct {
	Store *database.Store
	Hub   *hub.Hub
	// Peer forwards events to the other service.
	Peer  services.Notifier
	Inbox *services.Inbox

	// Admin only.
	Tokens *utils.TokenIssuer
	Dev    services.DevCredentials

	WebhookSecret  string
	AllowedOrigins []string
}

func newEngine(service string, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.AllowedOrigins))
	r.Use(middlewares.LoggerMiddleware(service))

	r.GET("/api/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", gin.H{
			"service": service,
			"clients": deps.Hub.Count(),
		})
	})
	return r
}

func SetupCustomerRouter(deps Deps) *gin.Engine {
	r := newEngine("customer", deps)

	menuCtrl := controllers.NewMenuController(services.NewMenuService(deps.Store, deps.Hub, deps.Peer))
	orderSvc := services.NewOrderService(deps.Store, deps.Hub, deps.Peer)
	orderCtrl := controllers.NewOrderController(orderSvc)
	customerCtrl := controllers.NewCustomerController(orderSvc)
	tableCtrl := controllers.NewTableController(services.NewBookingService(deps.Store, deps.Hub, deps.Peer))
	staffCtrl := controllers.NewStaffController(services.NewStaffService(deps.Store, deps.Hub, deps.Peer))
	webhookCtrl := controllers.NewWebhookController(services.NewReceiver(deps.Store, deps.Hub, deps.Inbox))
	wsCtrl := controllers.NewWSController(deps.Hub)

	api := r.Group("/api")
	{
		api.GET("/menu-items", menuCtrl.GetAllMenus)
		api.GET("/menu-items/:id", menuCtrl.GetMenuByID)
		api.GET("/menu-items/category/:category", menuCtrl.GetMenuByCategory)

		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.GET("/orders/:id", orderCtrl.GetOrderByID)
		api.GET("/customers/:phone", customerCtrl.GetCustomer)

		api.POST("/table-bookings", tableCtrl.CreateBooking)
		api.GET("/table-bookings", tableCtrl.GetAllBookings)

		api.GET("/chefs", staffCtrl.GetChefs)
		api.GET("/riders/:id", staffCtrl.GetRider)
	}

	// Bridge receivers, called by the Admin Service
	hooks := r.Group("/api")
	hooks.Use(middlewares.WebhookSecret(deps.WebhookSecret), middlewares.LogWebhookRequest())
	{
		hooks.POST("/menu-update", webhookCtrl.MenuUpdate)
		hooks.POST("/order-status-update", webhookCtrl.OrderStatusUpdate)
		hooks.POST("/staff-update", webhookCtrl.StaffUpdate)
		hooks.POST("/table-booking-update", webhookCtrl.TableBookingUpdate)
	}

	r.GET("/ws", wsCtrl.CustomerWS)
	return r
}

func SetupAdminRouter(deps Deps) *gin.Engine {
	r := newEngine("admin", deps)

	adminCtrl := controllers.NewAdminController(
		services.NewAuthService(deps.Store, deps.Tokens, deps.Dev),
		services.NewDashboardService(deps.Store),
	)
	menuCtrl := controllers.NewMenuController(services.NewMenuService(deps.Store, deps.Hub, deps.Peer))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(deps.Store, deps.Hub, deps.Peer))
	tableCtrl := controllers.NewTableController(services.NewBookingService(deps.Store, deps.Hub, deps.Peer))
	staffCtrl := controllers.NewStaffController(services.NewStaffService(deps.Store, deps.Hub, deps.Peer))
	webhookCtrl := controllers.NewWebhookController(services.NewReceiver(deps.Store, deps.Hub, deps.Inbox))
	wsCtrl := controllers.NewWSController(deps.Hub)

	// Rate limiter untuk setup/login
	public := r.Group("/api/admin")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/setup", adminCtrl.Setup)
		public.POST("/login", adminCtrl.Login)
	}

	hooks := r.Group("/api/admin/webhook")
	hooks.Use(middlewares.WebhookSecret(deps.WebhookSecret), middlewares.LogWebhookRequest())
	{
		hooks.POST("/new-order", webhookCtrl.NewOrder)
		hooks.POST("/table-booking", webhookCtrl.NewTableBooking)
	}

	r.GET("/api/admin/ws", middlewares.WebSocketAuthMiddleware(deps.Tokens), wsCtrl.AdminWS)

	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware(deps.Tokens), middlewares.RoleCheck(models.RoleAdmin))
	{
		admin.GET("/profile", adminCtrl.GetProfile)
		admin.POST("/logout", adminCtrl.Logout)
		admin.GET("/dashboard-stats", adminCtrl.GetDashboardStats)

		admin.GET("/menu-items", menuCtrl.GetAllMenus)
		admin.POST("/menu-items", menuCtrl.CreateMenu)
		admin.GET("/menu-items/:id", menuCtrl.GetMenuByID)
		admin.PUT("/menu-items/:id", menuCtrl.UpdateMenu)
		admin.DELETE("/menu-items/:id", menuCtrl.DeleteMenu)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:id", orderCtrl.GetOrderByID)
		admin.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)
		admin.PUT("/orders/:id/rider", orderCtrl.AssignRider)

		admin.GET("/riders", staffCtrl.GetRiders)
		admin.POST("/riders", staffCtrl.CreateRider)
		admin.GET("/riders/:id", staffCtrl.GetRider)
		admin.PUT("/riders/:id", staffCtrl.UpdateRider)
		admin.PUT("/riders/:id/location", staffCtrl.UpdateRiderLocation)
		admin.DELETE("/riders/:id", staffCtrl.DeleteRider)

		admin.GET("/chefs", staffCtrl.GetChefs)
		admin.POST("/chefs", staffCtrl.CreateChef)
		admin.GET("/chefs/:id", staffCtrl.GetChef)
		admin.PUT("/chefs/:id", staffCtrl.UpdateChef)
		admin.DELETE("/chefs/:id", staffCtrl.DeleteChef)

		admin.GET("/table-bookings", tableCtrl.GetAllBookings)
		admin.PUT("/table-bookings/:id/status", tableCtrl.UpdateBookingStatus)
	}
	return r
}
