package repository

import (
	"context"
	"errors"

	"arcade/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HighScores is the per-(game, player) best score store. Set never lowers a
// stored score.
type HighScores interface {
	Get(ctx context.Context, gameType domain.GameType, playerID int64) (int, error)
	Set(ctx context.Context, gameType domain.GameType, player *domain.Player, score int) error
	Top(ctx context.Context, gameType domain.GameType, limit int) ([]*domain.HighScore, error)
}

const defaultTopLimit = 10

type HighScoreRepository struct {
	db *pgxpool.Pool
}

func NewHighScoreRepository(db *pgxpool.Pool) *HighScoreRepository {
	return &HighScoreRepository{db: db}
}

func (r *HighScoreRepository) Get(ctx context.Context, gameType domain.GameType, playerID int64) (int, error) {
	var score int
	err := r.db.QueryRow(ctx,
		`SELECT score FROM high_scores WHERE game_type = $1 AND player_id = $2`,
		gameType, playerID,
	).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return score, err
}

// Set upserts and keeps the greater of the stored and new score.
func (r *HighScoreRepository) Set(ctx context.Context, gameType domain.GameType, player *domain.Player, score int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO high_scores (game_type, player_id, score, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (game_type, player_id) DO UPDATE
		 SET score = GREATEST(high_scores.score, EXCLUDED.score),
		     updated_at = CASE WHEN EXCLUDED.score > high_scores.score
		                       THEN EXCLUDED.updated_at ELSE high_scores.updated_at END`,
		gameType, player.ID, score,
	)
	return err
}

func (r *HighScoreRepository) Top(ctx context.Context, gameType domain.GameType, limit int) ([]*domain.HighScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := r.db.Query(ctx,
		`SELECT hs.player_id, COALESCE(p.name, ''), hs.game_type, hs.score, hs.updated_at
		 FROM high_scores hs
		 LEFT JOIN players p ON p.id = hs.player_id
		 WHERE hs.game_type = $1
		 ORDER BY hs.score DESC, hs.updated_at ASC
		 LIMIT $2`,
		gameType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.HighScore
	for rows.Next() {
		var hs domain.HighScore
		if err := rows.Scan(&hs.PlayerID, &hs.PlayerName, &hs.GameType, &hs.Score, &hs.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &hs)
	}
	return result, rows.Err()
}
