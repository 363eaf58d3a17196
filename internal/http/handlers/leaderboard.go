package handlers

import (
	"net/http"
	"strconv"

	"arcade/internal/domain"
	"arcade/internal/game"

	"github.com/gin-gonic/gin"
)

const maxLeaderboard = 100

// GetLeaderboard returns the best scores for one game
func (h *Handler) GetLeaderboard(c *gin.Context) {
	gt, err := game.ParseGameType(c.Param("game"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxLeaderboard)
		}
	}

	if h.HighScores == nil {
		c.JSON(http.StatusOK, gin.H{"game": gt, "leaderboard": []*domain.HighScore{}})
		return
	}

	top, err := h.HighScores.Top(c.Request.Context(), domain.GameType(gt), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if top == nil {
		top = []*domain.HighScore{}
	}

	c.JSON(http.StatusOK, gin.H{
		"game":        gt,
		"leaderboard": top,
	})
}
