package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arcade/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteHighScoreStore backs the terminal host, which runs without a server.
type SQLiteHighScoreStore struct {
	db *sql.DB
}

// OpenSQLiteHighScoreStore opens (or creates) the database file and its table.
func OpenSQLiteHighScoreStore(path string) (*SQLiteHighScoreStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS high_scores (
		game_type   TEXT NOT NULL,
		player_id   INTEGER NOT NULL,
		player_name TEXT NOT NULL DEFAULT '',
		score       INTEGER NOT NULL DEFAULT 0,
		updated_at  INTEGER NOT NULL,
		PRIMARY KEY (game_type, player_id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create high_scores table: %w", err)
	}

	return &SQLiteHighScoreStore{db: db}, nil
}

func (s *SQLiteHighScoreStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteHighScoreStore) Get(ctx context.Context, gameType domain.GameType, playerID int64) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM high_scores WHERE game_type = ? AND player_id = ?`,
		string(gameType), playerID,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return score, err
}

func (s *SQLiteHighScoreStore) Set(ctx context.Context, gameType domain.GameType, player *domain.Player, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO high_scores (game_type, player_id, player_name, score, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (game_type, player_id) DO UPDATE
		 SET player_name = excluded.player_name,
		     updated_at = CASE WHEN excluded.score > high_scores.score
		                       THEN excluded.updated_at ELSE high_scores.updated_at END,
		     score = MAX(high_scores.score, excluded.score)`,
		string(gameType), player.ID, player.Name, score, time.Now().UTC().UnixMilli(),
	)
	return err
}

func (s *SQLiteHighScoreStore) Top(ctx context.Context, gameType domain.GameType, limit int) ([]*domain.HighScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, player_name, score, updated_at
		 FROM high_scores
		 WHERE game_type = ?
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`,
		string(gameType), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.HighScore
	for rows.Next() {
		var (
			hs domain.HighScore
			ms int64
		)
		if err := rows.Scan(&hs.PlayerID, &hs.PlayerName, &hs.Score, &ms); err != nil {
			return nil, err
		}
		hs.GameType = gameType
		hs.UpdatedAt = time.UnixMilli(ms).UTC()
		result = append(result, &hs)
	}
	return result, rows.Err()
}
