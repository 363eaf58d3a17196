package ws

import (
	"arcade/internal/domain"
	"arcade/internal/game"
)

// server → client
type ReadyPayload struct {
	SessionID string         `json:"session_id"`
	Game      game.GameType  `json:"game"`
	Player    *domain.Player `json:"player"`
	Info      game.Info      `json:"info"`
}

type GameOverPayload struct {
	Result     game.Result      `json:"result"`
	Reason     domain.EndReason `json:"reason"`
	DurationMs int64            `json:"duration_ms"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
