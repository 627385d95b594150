package middlewares

import (
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware reads the session token from the "token" query
// parameter, since browsers cannot set headers on a WebSocket handshake.
func WebSocketAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, auth, c.Query("token"))
	}
}
