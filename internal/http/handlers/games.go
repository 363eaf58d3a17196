package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Games lists the available games with their board sizes, timing and keys.
func (h *Handler) Games(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": h.Factory.Describe()})
}
