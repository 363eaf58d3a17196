package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"arcade/internal/logger"
)

const (
	SnakeGridSize     = 20
	SnakeTickInterval = 150 * time.Millisecond

	// random draws before falling back to a scan of the grid
	foodRetryLimit = 4 * SnakeGridSize * SnakeGridSize
)

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) inBounds() bool {
	return c.X >= 0 && c.X < SnakeGridSize && c.Y >= 0 && c.Y < SnakeGridSize
}

type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	DirUp    = Direction{DX: 0, DY: -1}
	DirDown  = Direction{DX: 0, DY: 1}
	DirLeft  = Direction{DX: -1, DY: 0}
	DirRight = Direction{DX: 1, DY: 0}
)

var (
	snakeOrigin       = Cell{X: 10, Y: 10}
	snakeStartHeading = DirRight
)

type SnakeEngine struct {
	mu       sync.Mutex
	rng      *rand.Rand
	store    HighScoreStore
	log      *slog.Logger
	interval time.Duration

	body      []Cell
	dir       Direction
	food      Cell
	hasFood   bool
	score     int
	highScore int
	state     State
}

// NewSnakeEngine creates a running snake game. store may be nil, in which case
// the high score only lives as long as the engine.
func NewSnakeEngine(store HighScoreStore) *SnakeEngine {
	return NewSnakeEngineWithConfig(store, EngineConfig{})
}

func NewSnakeEngineWithConfig(store HighScoreStore, cfg EngineConfig) *SnakeEngine {
	interval := cfg.Interval
	if interval <= 0 {
		interval = SnakeTickInterval
	}

	e := &SnakeEngine{
		rng:      cfg.rand(),
		store:    store,
		log:      logger.With("game", string(TypeSnake)),
		interval: interval,
	}

	if store != nil {
		hs, err := store.HighScore()
		if err != nil {
			e.log.Warn("load high score failed", "error", err)
		} else if hs > 0 {
			e.highScore = hs
		}
	}

	e.reset()
	return e
}

func (e *SnakeEngine) Type() GameType { return TypeSnake }

func (e *SnakeEngine) Interval() time.Duration { return e.interval }

func (e *SnakeEngine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}

	head := e.body[0]
	next := Cell{X: head.X + e.dir.DX, Y: head.Y + e.dir.DY}

	// the tail has not moved yet, so it still counts as an obstacle
	if !next.inBounds() || e.occupies(next) {
		e.state = StateOver
		return
	}

	e.body = append(e.body, Cell{})
	copy(e.body[1:], e.body)
	e.body[0] = next

	if e.hasFood && next == e.food {
		e.score++
		if e.score > e.highScore {
			e.highScore = e.score
			e.persistHighScore()
		}
		e.placeFood()
		return
	}

	e.body = e.body[:len(e.body)-1]
}

// HandleInput applies one key press and reports whether it changed anything.
func (e *SnakeEngine) HandleInput(k Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateOver {
		if k == KeyPause || k == KeyConfirm {
			e.reset()
			return true
		}
		return false
	}

	switch k {
	case KeyUp:
		return e.turn(DirUp)
	case KeyDown:
		return e.turn(DirDown)
	case KeyLeft:
		return e.turn(DirLeft)
	case KeyRight:
		return e.turn(DirRight)
	case KeyPause:
		if e.state == StatePaused {
			e.state = StateRunning
		} else {
			e.state = StatePaused
		}
		return true
	}
	return false
}

// turn only accepts a change of axis; same-axis requests, including a
// reversal into the neck, are dropped. The check is against the current
// heading, not the last move, so two turns between ticks can still point the
// head back into the neck.
func (e *SnakeEngine) turn(d Direction) bool {
	if d.DX != 0 && e.dir.DX != 0 {
		return false
	}
	if d.DY != 0 && e.dir.DY != 0 {
		return false
	}
	e.dir = d
	return true
}

func (e *SnakeEngine) IsOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateOver
}

func (e *SnakeEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *SnakeEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *SnakeEngine) reset() {
	e.body = []Cell{snakeOrigin}
	e.dir = snakeStartHeading
	e.score = 0
	e.placeFood()
	e.state = StateRunning
}

func (e *SnakeEngine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Result{Score: e.score}
}

func (e *SnakeEngine) HighScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highScore
}

func (e *SnakeEngine) occupies(c Cell) bool {
	for _, b := range e.body {
		if b == c {
			return true
		}
	}
	return false
}

// placeFood draws uniformly over free cells. After foodRetryLimit misses it
// takes the first free cell in row-major order; a full grid leaves no food.
func (e *SnakeEngine) placeFood() {
	occupied := make(map[Cell]struct{}, len(e.body))
	for _, b := range e.body {
		occupied[b] = struct{}{}
	}

	if len(occupied) >= SnakeGridSize*SnakeGridSize {
		e.hasFood = false
		return
	}

	for i := 0; i < foodRetryLimit; i++ {
		c := Cell{X: e.rng.Intn(SnakeGridSize), Y: e.rng.Intn(SnakeGridSize)}
		if _, taken := occupied[c]; !taken {
			e.food = c
			e.hasFood = true
			return
		}
	}

	for y := 0; y < SnakeGridSize; y++ {
		for x := 0; x < SnakeGridSize; x++ {
			c := Cell{X: x, Y: y}
			if _, taken := occupied[c]; !taken {
				e.food = c
				e.hasFood = true
				return
			}
		}
	}
	e.hasFood = false
}

func (e *SnakeEngine) persistHighScore() {
	if e.store == nil {
		return
	}
	if err := e.store.SetHighScore(e.highScore); err != nil {
		e.log.Warn("persist high score failed", "score", e.highScore, "error", err)
	}
}

type SnakeSnapshot struct {
	Game       GameType  `json:"game"`
	State      State     `json:"state"`
	GridSize   int       `json:"grid_size"`
	Body       []Cell    `json:"body"`
	Direction  Direction `json:"direction"`
	Food       *Cell     `json:"food,omitempty"`
	Score      int       `json:"score"`
	HighScore  int       `json:"high_score"`
	IntervalMs int64     `json:"interval_ms"`
}

func (e *SnakeEngine) Snapshot() any {
	return e.SnakeSnapshot()
}

func (e *SnakeEngine) SnakeSnapshot() SnakeSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := SnakeSnapshot{
		Game:       TypeSnake,
		State:      e.state,
		GridSize:   SnakeGridSize,
		Body:       append([]Cell(nil), e.body...),
		Direction:  e.dir,
		Score:      e.score,
		HighScore:  e.highScore,
		IntervalMs: e.interval.Milliseconds(),
	}
	if e.hasFood {
		food := e.food
		s.Food = &food
	}
	return s
}
