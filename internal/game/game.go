package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type GameType string

const (
	TypeSnake  GameType = "snake"
	TypeTetris GameType = "tetris"
)

var ErrUnknownGame = errors.New("unknown game type")

// ParseGameType validates a game name coming from a client.
func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case TypeSnake, TypeTetris:
		return GameType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
}

// State is the lifecycle state of an engine.
type State string

const (
	StateRunning  State = "running"
	StateSpawning State = "spawning"
	StateFalling  State = "falling"
	StatePaused   State = "paused"
	StateOver     State = "game_over"
)

type Engine interface {
	Type() GameType

	// Simulation
	Tick()
	HandleInput(k Key) bool
	IsOver() bool
	Reset()

	// Host loop period, re-read after every tick
	Interval() time.Duration

	// Read side for renderers and result storage
	State() State
	Result() Result
	Snapshot() any
}

// Result is the persisted outcome of one game.
type Result struct {
	Score int `json:"score"`
	Lines int `json:"lines"`
	Level int `json:"level"`
}

// HighScoreStore is the persistence collaborator used by the snake engine.
// SetHighScore is only called when the running score beats the stored one.
type HighScoreStore interface {
	HighScore() (int, error)
	SetHighScore(score int) error
}

// EngineConfig tunes an engine. Zero values fall back to defaults.
type EngineConfig struct {
	Interval time.Duration
	Rand     *rand.Rand
}

func (c EngineConfig) rand() *rand.Rand {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
