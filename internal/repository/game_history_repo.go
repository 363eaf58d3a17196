package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"arcade/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameHistoryStore is implemented by the Postgres and in-memory repositories.
type GameHistoryStore interface {
	Create(ctx context.Context, gh *domain.GameHistory) error
	GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.GameHistory, error)
	GetPlayerStats(ctx context.Context, playerID int64, since time.Time) (*PlayerStats, error)
}

type GameHistoryRepository struct {
	db *pgxpool.Pool
}

func NewGameHistoryRepository(db *pgxpool.Pool) *GameHistoryRepository {
	return &GameHistoryRepository{db: db}
}

// Create сохраняет запись игры в историю
func (r *GameHistoryRepository) Create(ctx context.Context, gh *domain.GameHistory) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO game_history
			(player_id, game_type, session_id, score, lines, level, reason, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		gh.PlayerID,
		gh.GameType,
		gh.SessionID,
		gh.Score,
		gh.Lines,
		gh.Level,
		gh.Reason,
		gh.DurationMs,
	).Scan(&gh.ID, &gh.CreatedAt)
}

// GetByPlayer возвращает историю игр игрока, новые первыми
func (r *GameHistoryRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, game_type, session_id, score, lines, level,
				reason, duration_ms, created_at
		 FROM game_history
		 WHERE player_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistory(rows)
}

// PlayerStats - статистика игрока
type PlayerStats struct {
	PlayerID   int64 `json:"player_id"`
	TotalGames int   `json:"total_games"`
	Abandoned  int   `json:"abandoned"`
	BestScore  int   `json:"best_score"`
	TotalScore int64 `json:"total_score"`
	TotalLines int64 `json:"total_lines"`
	PlayTimeMs int64 `json:"play_time_ms"`
}

// GetPlayerStats возвращает статистику игрока за период
func (r *GameHistoryRepository) GetPlayerStats(ctx context.Context, playerID int64, since time.Time) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerID: playerID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as total_games,
			COUNT(*) FILTER (WHERE reason = 'abandoned') as abandoned,
			COALESCE(MAX(score), 0) as best_score,
			COALESCE(SUM(score), 0) as total_score,
			COALESCE(SUM(lines), 0) as total_lines,
			COALESCE(SUM(duration_ms), 0) as play_time_ms
		 FROM game_history
		 WHERE player_id = $1 AND created_at >= $2`,
		playerID, since,
	).Scan(&stats.TotalGames, &stats.Abandoned, &stats.BestScore, &stats.TotalScore, &stats.TotalLines, &stats.PlayTimeMs)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func scanHistory(rows pgx.Rows) ([]*domain.GameHistory, error) {
	var result []*domain.GameHistory

	for rows.Next() {
		var gh domain.GameHistory
		if err := rows.Scan(
			&gh.ID, &gh.PlayerID, &gh.GameType, &gh.SessionID, &gh.Score,
			&gh.Lines, &gh.Level, &gh.Reason, &gh.DurationMs, &gh.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &gh)
	}

	return result, rows.Err()
}

// MemoryGameHistoryRepository is the DB-less history store.
type MemoryGameHistoryRepository struct {
	mu      sync.RWMutex
	seq     int64
	records []domain.GameHistory
}

func NewMemoryGameHistoryRepository() *MemoryGameHistoryRepository {
	return &MemoryGameHistoryRepository{}
}

func (r *MemoryGameHistoryRepository) Create(_ context.Context, gh *domain.GameHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	gh.ID = r.seq
	if gh.CreatedAt.IsZero() {
		gh.CreatedAt = time.Now().UTC()
	}
	r.records = append(r.records, *gh)
	return nil
}

func (r *MemoryGameHistoryRepository) GetByPlayer(_ context.Context, playerID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.GameHistory
	for i := range r.records {
		if r.records[i].PlayerID == playerID {
			gh := r.records[i]
			result = append(result, &gh)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryGameHistoryRepository) GetPlayerStats(_ context.Context, playerID int64, since time.Time) (*PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &PlayerStats{PlayerID: playerID}
	for _, gh := range r.records {
		if gh.PlayerID != playerID || gh.CreatedAt.Before(since) {
			continue
		}
		stats.TotalGames++
		if gh.Reason == domain.EndReasonAbandoned {
			stats.Abandoned++
		}
		if gh.Score > stats.BestScore {
			stats.BestScore = gh.Score
		}
		stats.TotalScore += int64(gh.Score)
		stats.TotalLines += int64(gh.Lines)
		stats.PlayTimeMs += gh.DurationMs
	}
	return stats, nil
}
