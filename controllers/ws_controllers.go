package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

type WSController struct {
	Hub *hub.Hub
}

func NewWSController(h *hub.Hub) *WSController {
	return &WSController{Hub: h}
}

// CustomerWS -> GET /ws?phone=, without a phone every event is delivered
func (wc *WSController) CustomerWS(c *gin.Context) {
	wc.serve(c, hub.OrderScope(c.Query("phone")))
}

// AdminWS -> GET /api/admin/ws?token=, dashboards see everything
func (wc *WSController) AdminWS(c *gin.Context) {
	wc.serve(c, "")
}

func (wc *WSController) serve(c *gin.Context, scope string) {
	if err := wc.Hub.ServeWS(c.Writer, c.Request, scope); err != nil {
		utils.ErrorLogger.WithError(err).WithField("hub", wc.Hub.Name()).Warn("websocket upgrade failed")
	}
}
