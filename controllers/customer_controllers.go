package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// CustomerController exposes the profile kept per phone number.
type CustomerController struct {
	Orders *services.OrderService
}

func NewCustomerController(orders *services.OrderService) *CustomerController {
	return &CustomerController{Orders: orders}
}

// GetCustomer -> GET /api/customers/:phone
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	user, err := cc.Orders.Customer(c.Param("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile", user)
}
