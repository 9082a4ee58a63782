package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/middlewares"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type AdminController struct {
	Auth      *services.AuthService
	Dashboard *services.DashboardService
}

func NewAdminController(auth *services.AuthService, dashboard *services.DashboardService) *AdminController {
	return &AdminController{Auth: auth, Dashboard: dashboard}
}

// Setup -> creates the one admin account, 409 afterwards
func (ac *AdminController) Setup(c *gin.Context) {
	var in services.SetupInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := ac.Auth.Setup(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Admin account created", admin)
}

func (ac *AdminController) Login(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ac.Auth.Login(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", res)
}

func (ac *AdminController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.GetString(middlewares.ContextToken)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AdminController) GetProfile(c *gin.Context) {
	admin, err := ac.Auth.Profile(c.GetString(middlewares.ContextAdminID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Admin profile", admin)
}

func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Dashboard.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
