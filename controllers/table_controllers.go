package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// TableController serves table bookings.
type TableController struct {
	Service *services.BookingService
}

func NewTableController(svc *services.BookingService) *TableController {
	return &TableController{Service: svc}
}

func (tc *TableController) GetAllBookings(c *gin.Context) {
	bookings, err := tc.Service.List(c.Query("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of table bookings", bookings)
}

func (tc *TableController) CreateBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := tc.Service.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table booked", booking)
}

func (tc *TableController) UpdateBookingStatus(c *gin.Context) {
	var in services.BookingStatusInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := tc.Service.UpdateStatus(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table booking updated", booking)
}
