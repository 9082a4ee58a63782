package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
)

func LoggerMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"service":   service,
			"method":    c.Request.Method,
			"status":    status,
			"latency":   latency.String(),
			"client_ip": c.ClientIP(),
			"path":      path,
		})
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
