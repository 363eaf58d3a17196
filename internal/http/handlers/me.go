package handlers

import (
	"errors"
	"net/http"
	"time"

	"arcade/internal/domain"
	"arcade/internal/logger"
	"arcade/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	player, err := h.Players.Player(c.Request.Context(), playerID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         player.ID,
		"name":       player.Name,
		"created_at": player.CreatedAt,
	})
}

func (h *Handler) MyGames(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	ctx := c.Request.Context()

	games, err := h.History.GetByPlayer(ctx, playerID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get games"})
		return
	}
	if games == nil {
		games = []*domain.GameHistory{}
	}

	// Get stats for the last month
	since := time.Now().AddDate(0, -1, 0)
	stats, err := h.History.GetPlayerStats(ctx, playerID, since)
	if err != nil {
		logger.Warn("get player stats failed", "player_id", playerID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"games": games, "stats": stats})
}

func (h *Handler) MyHighScores(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	scores := make(map[domain.GameType]int, 2)
	for _, gt := range []domain.GameType{domain.GameTypeSnake, domain.GameTypeTetris} {
		scores[gt] = 0
		if h.HighScores == nil {
			continue
		}
		score, err := h.HighScores.Get(c.Request.Context(), gt, playerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get high scores"})
			return
		}
		scores[gt] = score
	}

	c.JSON(http.StatusOK, gin.H{"high_scores": scores})
}
