package domain

import "time"

// HighScore - лучший результат игрока в одной игре
type HighScore struct {
	PlayerID   int64     `db:"player_id" json:"player_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	GameType   GameType  `db:"game_type" json:"game_type"`
	Score      int       `db:"score" json:"score"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
