package game

import (
	"fmt"
	"time"
)

type Factory struct {
	snakeInterval time.Duration
	tetrisBase    time.Duration
}

func NewFactory() *Factory {
	return &Factory{
		snakeInterval: SnakeTickInterval,
		tetrisBase:    TetrisBaseInterval,
	}
}

// NewFactoryWithIntervals overrides the snake tick and the level-1 tetris drop
// period. Non-positive values keep the defaults.
func NewFactoryWithIntervals(snake, tetrisBase time.Duration) *Factory {
	f := NewFactory()
	if snake > 0 {
		f.snakeInterval = snake
	}
	if tetrisBase > 0 {
		f.tetrisBase = tetrisBase
	}
	return f
}

// CreateGame builds a fresh engine. The store is only used by snake.
func (f *Factory) CreateGame(gameType GameType, store HighScoreStore) (Engine, error) {
	switch gameType {
	case TypeSnake:
		return NewSnakeEngineWithConfig(store, EngineConfig{Interval: f.snakeInterval}), nil
	case TypeTetris:
		return NewTetrisEngineWithConfig(EngineConfig{Interval: f.tetrisBase}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameType)
	}
}

// Info describes a game's rules for clients.
type Info struct {
	Type         GameType          `json:"type"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	IntervalMs   int64             `json:"interval_ms"`
	Keys         []string          `json:"keys"`
	PieceColors  map[string]string `json:"piece_colors,omitempty"`
	LinesPerLvl  int               `json:"lines_per_level,omitempty"`
	PointsPerRow int               `json:"points_per_line,omitempty"`
}

func (f *Factory) Describe() []Info {
	colors := make(map[string]string, len(Kinds))
	for _, k := range Kinds {
		colors[k.String()] = k.Color()
	}
	return []Info{
		{
			Type:       TypeSnake,
			Width:      SnakeGridSize,
			Height:     SnakeGridSize,
			IntervalMs: f.snakeInterval.Milliseconds(),
			Keys:       []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight", "Space", "Enter"},
		},
		{
			Type:         TypeTetris,
			Width:        BoardWidth,
			Height:       BoardHeight,
			IntervalMs:   f.tetrisBase.Milliseconds(),
			Keys:         []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight", "Space", "Enter"},
			PieceColors:  colors,
			LinesPerLvl:  LinesPerLevel,
			PointsPerRow: PointsPerLine,
		},
	}
}
