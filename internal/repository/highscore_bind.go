package repository

import (
	"context"
	"time"

	"arcade/internal/domain"
	"arcade/internal/game"
)

const storeTimeout = 2 * time.Second

// boundHighScore adapts a HighScores store to the engine's collaborator for a
// single (game, player) pair.
type boundHighScore struct {
	store    HighScores
	gameType domain.GameType
	player   domain.Player
}

// Bind returns a game.HighScoreStore for one player and game. A nil store
// yields nil so engines run without persistence.
func Bind(store HighScores, gameType domain.GameType, player *domain.Player) game.HighScoreStore {
	if store == nil || player == nil {
		return nil
	}
	return &boundHighScore{store: store, gameType: gameType, player: *player}
}

func (b *boundHighScore) HighScore() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return b.store.Get(ctx, b.gameType, b.player.ID)
}

func (b *boundHighScore) SetHighScore(score int) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return b.store.Set(ctx, b.gameType, &b.player, score)
}
