package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"arcade/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// RedisHighScoreStore keeps one sorted set per game (member = player id) and a
// hash of player names for leaderboard display.
type RedisHighScoreStore struct {
	client *redis.Client
	prefix string
}

func NewRedisHighScoreStore(client *redis.Client) *RedisHighScoreStore {
	return &RedisHighScoreStore{client: client, prefix: "arcade"}
}

func (s *RedisHighScoreStore) boardKey(gameType domain.GameType) string {
	return s.prefix + ":hs:" + string(gameType)
}

func (s *RedisHighScoreStore) namesKey() string {
	return s.prefix + ":players"
}

func (s *RedisHighScoreStore) updatedKey(gameType domain.GameType) string {
	return s.prefix + ":hs_updated:" + string(gameType)
}

func (s *RedisHighScoreStore) Get(ctx context.Context, gameType domain.GameType, playerID int64) (int, error) {
	score, err := s.client.ZScore(ctx, s.boardKey(gameType), strconv.FormatInt(playerID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(score), nil
}

// Set relies on ZADD GT so a lower score never replaces a higher one.
func (s *RedisHighScoreStore) Set(ctx context.Context, gameType domain.GameType, player *domain.Player, score int) error {
	member := strconv.FormatInt(player.ID, 10)

	var changed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		changed = pipe.ZAddArgs(ctx, s.boardKey(gameType), redis.ZAddArgs{
			GT:      true,
			Ch:      true,
			Members: []redis.Z{{Score: float64(score), Member: member}},
		})
		pipe.HSet(ctx, s.namesKey(), member, player.Name)
		return nil
	})
	if err != nil {
		return err
	}
	if changed != nil && changed.Val() > 0 {
		return s.client.HSet(ctx, s.updatedKey(gameType), member, time.Now().UTC().UnixMilli()).Err()
	}
	return nil
}

func (s *RedisHighScoreStore) Top(ctx context.Context, gameType domain.GameType, limit int) ([]*domain.HighScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	entries, err := s.client.ZRevRangeWithScores(ctx, s.boardKey(gameType), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	members := make([]string, len(entries))
	for i, z := range entries {
		members[i], _ = z.Member.(string)
	}
	names, err := s.client.HMGet(ctx, s.namesKey(), members...).Result()
	if err != nil {
		return nil, err
	}
	updated, err := s.client.HMGet(ctx, s.updatedKey(gameType), members...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*domain.HighScore, 0, len(entries))
	for i, z := range entries {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			continue
		}
		hs := &domain.HighScore{PlayerID: id, GameType: gameType, Score: int(z.Score)}
		if name, ok := names[i].(string); ok {
			hs.PlayerName = name
		}
		if ms, ok := updated[i].(string); ok {
			if n, err := strconv.ParseInt(ms, 10, 64); err == nil {
				hs.UpdatedAt = time.UnixMilli(n).UTC()
			}
		}
		result = append(result, hs)
	}
	return result, nil
}
