package handlers

import (
	"errors"
	"net/http"

	"arcade/internal/game"
	"arcade/internal/logger"
	"arcade/internal/repository"
	"arcade/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS upgrades to a websocket and starts a game session. Expects JWT to have
// run; the game comes from ?game=snake|tetris (default snake).
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := getPlayerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		name := c.DefaultQuery("game", string(game.TypeSnake))
		gameType, err := game.ParseGameType(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game"})
			return
		}

		player, err := h.Players.Player(c.Request.Context(), playerID)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
			return
		}

		// WebSocket upgrade
		conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "player_id", playerID, "error", err)
			return
		}

		if err := hub.Start(conn, player, gameType); err != nil {
			logger.Info("ws session refused", "player_id", playerID, "error", err)
		}
	}
}
