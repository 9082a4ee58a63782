package middlewares

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
)

const HeaderWebhookSecret = "X-Webhook-Secret"

// WebhookSecret guards the bridge receivers. An empty secret disables the
// check.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader(HeaderWebhookSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid webhook secret"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LogWebhookRequest logs every inbound bridge call with its event id.
func LogWebhookRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		utils.InfoLogger.WithFields(logrus.Fields{
			"path":     c.Request.URL.Path,
			"event_id": c.GetHeader("X-Event-ID"),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("webhook received")
	}
}
