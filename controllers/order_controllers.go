package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Service: svc}
}

// GetAllOrders -> newest first, ?phone= narrows to one customer
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Service.List(c.Query("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Service.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}

// CreateOrder -> status pending, totals computed server side
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var in services.OrderInput
	if !bindJSON(c, &in) {
		return
	}
	order, err := oc.Service.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var in services.StatusInput
	if !bindJSON(c, &in) {
		return
	}
	order, err := oc.Service.UpdateStatus(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) AssignRider(c *gin.Context) {
	var body struct {
		RiderID string `json:"riderId" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	order, err := oc.Service.AssignRider(c.Request.Context(), c.Param("id"), body.RiderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rider assigned", order)
}
