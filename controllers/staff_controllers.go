package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type StaffController struct {
	Service *services.StaffService
}

func NewStaffController(svc *services.StaffService) *StaffController {
	return &StaffController{Service: svc}
}

func (sc *StaffController) GetRiders(c *gin.Context) {
	riders, err := sc.Service.Riders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of riders", riders)
}

func (sc *StaffController) GetRider(c *gin.Context) {
	rider, err := sc.Service.Rider(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rider", rider)
}

func (sc *StaffController) CreateRider(c *gin.Context) {
	var in services.RiderInput
	if !bindJSON(c, &in) {
		return
	}
	rider, err := sc.Service.CreateRider(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Rider created", rider)
}

func (sc *StaffController) UpdateRider(c *gin.Context) {
	var in services.RiderInput
	if !bindJSON(c, &in) {
		return
	}
	rider, err := sc.Service.UpdateRider(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rider updated", rider)
}

// UpdateRiderLocation -> lat/lng only
func (sc *StaffController) UpdateRiderLocation(c *gin.Context) {
	var in services.LocationInput
	if !bindJSON(c, &in) {
		return
	}
	rider, err := sc.Service.UpdateRiderLocation(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rider location updated", rider)
}

func (sc *StaffController) DeleteRider(c *gin.Context) {
	id := c.Param("id")
	if err := sc.Service.DeleteRider(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rider deleted", gin.H{"id": id})
}

func (sc *StaffController) GetChefs(c *gin.Context) {
	chefs, err := sc.Service.Chefs()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of chefs", chefs)
}

func (sc *StaffController) GetChef(c *gin.Context) {
	chef, err := sc.Service.Chef(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Chef", chef)
}

func (sc *StaffController) CreateChef(c *gin.Context) {
	var in services.ChefInput
	if !bindJSON(c, &in) {
		return
	}
	chef, err := sc.Service.CreateChef(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Chef created", chef)
}

func (sc *StaffController) UpdateChef(c *gin.Context) {
	var in services.ChefInput
	if !bindJSON(c, &in) {
		return
	}
	chef, err := sc.Service.UpdateChef(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Chef updated", chef)
}

func (sc *StaffController) DeleteChef(c *gin.Context) {
	id := c.Param("id")
	if err := sc.Service.DeleteChef(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Chef deleted", gin.H{"id": id})
}
