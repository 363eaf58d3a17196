package handlers

import (
	"arcade/internal/game"
	"arcade/internal/http/middleware"
	"arcade/internal/repository"
	"arcade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Deps are the stores and services the handlers need. Store fields may be
// Postgres, Redis or in-memory implementations.
type Deps struct {
	Players    repository.Players
	History    repository.GameHistoryStore
	HighScores repository.HighScores
	Factory    *game.Factory
	Upgrader   *websocket.Upgrader
}

type Handler struct {
	Players    *service.PlayerService
	History    repository.GameHistoryStore
	HighScores repository.HighScores
	Factory    *game.Factory
	Upgrader   *websocket.Upgrader
}

func NewHandler(d Deps) *Handler {
	if d.Factory == nil {
		d.Factory = game.NewFactory()
	}
	return &Handler{
		Players:    service.NewPlayerService(d.Players),
		History:    d.History,
		HighScores: d.HighScores,
		Factory:    d.Factory,
		Upgrader:   d.Upgrader,
	}
}

// getPlayerID извлекает player_id из контекста Gin
func getPlayerID(c *gin.Context) (int64, bool) {
	return middleware.PlayerID(c)
}
