package middleware

import (
	"net/http"
	"strings"

	"arcade/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextPlayerID is the gin context key holding the authenticated player id.
const ContextPlayerID = "player_id"

// JWT accepts "Authorization: Bearer <token>" and, for websocket upgrades
// where browsers cannot set headers, a ?token= query parameter.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		playerID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextPlayerID, playerID)
		c.Next()
	}
}

// PlayerID returns the id stored by JWT.
func PlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextPlayerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
