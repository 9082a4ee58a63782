package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextAdminID = "adminID"
	ContextRole    = "role"
	ContextToken   = "token"
)

func AuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header must be a bearer token"))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !authenticate(c, issuer, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, issuer *utils.TokenIssuer, tokenString string) bool {
	claims, err := issuer.ParseToken(tokenString)
	if err != nil {
		utils.InfoLogger.WithError(err).WithField("path", c.Request.URL.Path).Debug("token rejected")
		return false
	}

	c.Set(ContextAdminID, claims.AdminID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, tokenString)
	return true
}
