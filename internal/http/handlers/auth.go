package handlers

import (
	"errors"
	"net/http"

	"arcade/internal/service"

	"github.com/gin-gonic/gin"
)

type GuestRequest struct {
	Name string `json:"name"`
}

// Guest signs a player in by name and returns a bearer token.
func (h *Handler) Guest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	sess, err := h.Players.Guest(c.Request.Context(), req.Name)
	if errors.Is(err, service.ErrInvalidName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-32 characters"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign in failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  sess.Token,
		"player": sess.Player,
	})
}
