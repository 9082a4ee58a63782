package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// WebhookController receives bridge events from the peer service.
type WebhookController struct {
	Receiver *services.Receiver
}

func NewWebhookController(r *services.Receiver) *WebhookController {
	return &WebhookController{Receiver: r}
}

func respondApplied(c *gin.Context, applied bool, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !applied {
		utils.RespondJSON(c, http.StatusOK, "Event already processed", gin.H{"duplicate": true})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Event applied", gin.H{"duplicate": false})
}

// MenuUpdate -> POST /api/menu-update
func (wc *WebhookController) MenuUpdate(c *gin.Context) {
	var evt services.MenuEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyMenuEvent(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}

// OrderStatusUpdate -> POST /api/order-status-update
func (wc *WebhookController) OrderStatusUpdate(c *gin.Context) {
	var evt services.OrderStatusEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyOrderStatusEvent(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}

func (wc *WebhookController) StaffUpdate(c *gin.Context) {
	var evt services.StaffEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyStaffEvent(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}

func (wc *WebhookController) TableBookingUpdate(c *gin.Context) {
	var evt services.BookingEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyBookingEvent(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}

// NewOrder -> admin side, order placed on the customer service
func (wc *WebhookController) NewOrder(c *gin.Context) {
	var evt services.NewOrderEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyNewOrder(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}

func (wc *WebhookController) NewTableBooking(c *gin.Context) {
	var evt services.BookingEvent
	if !bindJSON(c, &evt) {
		return
	}
	applied, err := wc.Receiver.ApplyNewBooking(c.Request.Context(), evt)
	respondApplied(c, applied, err)
}
