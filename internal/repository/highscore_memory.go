package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"arcade/internal/domain"
)

type hsKey struct {
	game     domain.GameType
	playerID int64
}

type MemoryHighScoreStore struct {
	mu     sync.RWMutex
	scores map[hsKey]domain.HighScore
}

func NewMemoryHighScoreStore() *MemoryHighScoreStore {
	return &MemoryHighScoreStore{scores: make(map[hsKey]domain.HighScore)}
}

func (s *MemoryHighScoreStore) Get(_ context.Context, gameType domain.GameType, playerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[hsKey{gameType, playerID}].Score, nil
}

func (s *MemoryHighScoreStore) Set(_ context.Context, gameType domain.GameType, player *domain.Player, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := hsKey{gameType, player.ID}
	hs, ok := s.scores[k]
	hs.PlayerName = player.Name
	if !ok || score > hs.Score {
		hs = domain.HighScore{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			GameType:   gameType,
			Score:      score,
			UpdatedAt:  time.Now().UTC(),
		}
	}
	s.scores[k] = hs
	return nil
}

func (s *MemoryHighScoreStore) Top(_ context.Context, gameType domain.GameType, limit int) ([]*domain.HighScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	s.mu.RLock()
	var result []*domain.HighScore
	for k, hs := range s.scores {
		if k.game == gameType {
			cp := hs
			result = append(result, &cp)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.Before(result[j].UpdatedAt)
		}
		return result[i].PlayerID < result[j].PlayerID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
