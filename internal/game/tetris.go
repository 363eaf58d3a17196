package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"arcade/internal/logger"
)

const (
	TetrisBaseInterval = time.Second
	LinesPerLevel      = 10
	PointsPerLine      = 100
)

type TetrisEngine struct {
	mu           sync.Mutex
	rng          *rand.Rand
	log          *slog.Logger
	baseInterval time.Duration

	board Board
	queue pieceQueue
	score int
	lines int
	level int
	state State
}

func NewTetrisEngine() *TetrisEngine {
	return NewTetrisEngineWithConfig(EngineConfig{})
}

// NewTetrisEngineWithConfig uses cfg.Interval as the level-1 drop period.
func NewTetrisEngineWithConfig(cfg EngineConfig) *TetrisEngine {
	base := cfg.Interval
	if base <= 0 {
		base = TetrisBaseInterval
	}
	e := &TetrisEngine{
		rng:          cfg.rand(),
		log:          logger.With("game", string(TypeTetris)),
		baseInterval: base,
	}
	e.reset()
	return e
}

func (e *TetrisEngine) Type() GameType { return TypeTetris }

// Interval is the drop period for the current level.
func (e *TetrisEngine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseInterval / time.Duration(e.level)
}

func (e *TetrisEngine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateFalling {
		return
	}

	cur := &e.queue.current
	if !e.board.Collides(cur.Shape, cur.X, cur.Y+1) {
		cur.Y++
		return
	}

	e.board.Merge(*cur)
	if cur.Y <= 0 {
		e.state = StateOver
		return
	}

	if cleared := e.board.ClearLines(); cleared > 0 {
		e.lines += cleared
		e.level = e.lines/LinesPerLevel + 1
		e.score += cleared * PointsPerLine * e.level
		e.log.Debug("lines cleared", "count", cleared, "lines", e.lines, "level", e.level)
	}

	e.state = StateSpawning
	e.queue.advance(e.drawKind)
	e.settleSpawn()
}

// settleSpawn resolves the transient Spawning state.
func (e *TetrisEngine) settleSpawn() {
	cur := e.queue.current
	if e.board.Collides(cur.Shape, cur.X, cur.Y) {
		e.state = StateOver
		return
	}
	e.state = StateFalling
}

// HandleInput applies one key press and reports whether it changed anything.
// Manual soft drops never land the piece; landing belongs to Tick.
func (e *TetrisEngine) HandleInput(k Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateOver {
		return false
	}

	if k == KeyPause {
		switch e.state {
		case StatePaused:
			e.state = StateFalling
		case StateFalling:
			e.state = StatePaused
		default:
			return false
		}
		return true
	}

	if e.state != StateFalling {
		return false
	}

	switch k {
	case KeyLeft:
		return e.shift(-1, 0)
	case KeyRight:
		return e.shift(1, 0)
	case KeyDown:
		return e.shift(0, 1)
	case KeyUp:
		return e.rotate()
	}
	return false
}

func (e *TetrisEngine) shift(dx, dy int) bool {
	cur := &e.queue.current
	if e.board.Collides(cur.Shape, cur.X+dx, cur.Y+dy) {
		return false
	}
	cur.X += dx
	cur.Y += dy
	return true
}

func (e *TetrisEngine) rotate() bool {
	cur := &e.queue.current
	rotated := cur.Shape.Rotate()
	if e.board.Collides(rotated, cur.X, cur.Y) {
		return false
	}
	cur.Shape = rotated
	return true
}

func (e *TetrisEngine) IsOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateOver
}

func (e *TetrisEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *TetrisEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *TetrisEngine) reset() {
	e.board = Board{}
	e.score = 0
	e.lines = 0
	e.level = 1
	e.state = StateSpawning
	e.queue = pieceQueue{
		current: spawnPiece(e.drawKind()),
		next:    spawnPiece(e.drawKind()),
	}
	e.settleSpawn()
}

func (e *TetrisEngine) drawKind() PieceKind {
	return Kinds[e.rng.Intn(len(Kinds))]
}

func (e *TetrisEngine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Result{Score: e.score, Lines: e.lines, Level: e.level}
}

type PieceView struct {
	Kind  PieceKind `json:"kind"`
	Color string    `json:"color"`
	Shape Shape     `json:"shape"`
	X     int       `json:"x"`
	Y     int       `json:"y"`
}

func viewOf(p Piece) PieceView {
	return PieceView{
		Kind:  p.Kind,
		Color: p.Kind.Color(),
		Shape: p.Shape.Clone(),
		X:     p.X,
		Y:     p.Y,
	}
}

type TetrisSnapshot struct {
	Game       GameType  `json:"game"`
	State      State     `json:"state"`
	Board      Board     `json:"board"`
	Current    PieceView `json:"current"`
	Next       PieceView `json:"next"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	IntervalMs int64     `json:"interval_ms"`
}

func (e *TetrisEngine) Snapshot() any {
	return e.TetrisSnapshot()
}

// TetrisSnapshot returns the display board, i.e. the settled stack with the
// live piece drawn over it. The live piece is never written into the stack.
func (e *TetrisEngine) TetrisSnapshot() TetrisSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	display := e.board
	if e.state != StateOver {
		display = e.board.Overlay(e.queue.current)
	}

	return TetrisSnapshot{
		Game:       TypeTetris,
		State:      e.state,
		Board:      display,
		Current:    viewOf(e.queue.current),
		Next:       viewOf(e.queue.next),
		Score:      e.score,
		Lines:      e.lines,
		Level:      e.level,
		IntervalMs: (e.baseInterval / time.Duration(e.level)).Milliseconds(),
	}
}
