package domain

import "time"

// GameType - тип игры
type GameType string

const (
	GameTypeSnake  GameType = "snake"
	GameTypeTetris GameType = "tetris"
)

// EndReason - почему партия закончилась
type EndReason string

const (
	EndReasonGameOver  EndReason = "game_over"
	EndReasonAbandoned EndReason = "abandoned"
)

// GameHistory - запись истории игры
type GameHistory struct {
	ID         int64     `db:"id" json:"id"`
	PlayerID   int64     `db:"player_id" json:"player_id"`
	GameType   GameType  `db:"game_type" json:"game_type"`
	SessionID  string    `db:"session_id" json:"session_id"`
	Score      int       `db:"score" json:"score"`
	Lines      int       `db:"lines" json:"lines"`
	Level      int       `db:"level" json:"level"`
	Reason     EndReason `db:"reason" json:"reason"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
