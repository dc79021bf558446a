package middleware

import (
	"net/http"
	"strings"

	"clients_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextClientID = "clientID"
	ContextUsername = "username"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set(ContextClientID, claims.ClientID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}

// CallerFromContext returns the authenticated client set by AuthMiddleware.
// ok is false on routes served without authentication.
func CallerFromContext(c *gin.Context) (clientID int64, username string, ok bool) {
	v, exists := c.Get(ContextClientID)
	if !exists {
		return 0, "", false
	}
	clientID, ok = v.(int64)
	if !ok {
		return 0, "", false
	}
	return clientID, c.GetString(ContextUsername), true
}
