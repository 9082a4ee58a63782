package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(svc *services.MenuService) *MenuController {
	return &MenuController{Service: svc}
}

// GetAllMenus
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	items, err := mc.Service.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	item, err := mc.Service.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item", item)
}

func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	items, err := mc.Service.ByCategory(c.Param("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenu -> admin only
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var in services.MenuItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := mc.Service.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var in services.MenuItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := mc.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id := c.Param("id")
	if err := mc.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": id})
}
