package game

import (
	"errors"
	"math/rand"
	"testing"
)

type memStore struct {
	score   int
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) HighScore() (int, error) { return m.score, m.loadErr }

func (m *memStore) SetHighScore(score int) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.score = score
	return nil
}

func newTestSnake(t *testing.T, store HighScoreStore) *SnakeEngine {
	t.Helper()
	return NewSnakeEngineWithConfig(store, EngineConfig{Rand: rand.New(rand.NewSource(7))})
}

func contains(body []Cell, c Cell) bool {
	for _, b := range body {
		if b == c {
			return true
		}
	}
	return false
}

func TestSnakeInitialState(t *testing.T) {
	e := newTestSnake(t, nil)

	if e.State() != StateRunning {
		t.Fatalf("state = %s; want running", e.State())
	}
	s := e.SnakeSnapshot()
	if len(s.Body) != 1 || s.Body[0] != (Cell{X: 10, Y: 10}) {
		t.Fatalf("body = %v; want [(10,10)]", s.Body)
	}
	if s.Direction != DirRight {
		t.Fatalf("direction = %v; want right", s.Direction)
	}
	if s.Food == nil || contains(s.Body, *s.Food) {
		t.Fatalf("food %v must exist and be off the body", s.Food)
	}
}

func TestSnakeEatsFood(t *testing.T) {
	store := &memStore{}
	e := newTestSnake(t, store)
	e.body = []Cell{{X: 10, Y: 10}}
	e.dir = DirRight
	e.food = Cell{X: 11, Y: 10}
	e.hasFood = true

	e.Tick()

	s := e.SnakeSnapshot()
	if s.Score != 1 {
		t.Fatalf("score = %d; want 1", s.Score)
	}
	want := []Cell{{X: 11, Y: 10}, {X: 10, Y: 10}}
	if len(s.Body) != 2 || s.Body[0] != want[0] || s.Body[1] != want[1] {
		t.Fatalf("body = %v; want %v", s.Body, want)
	}
	if s.Food == nil || contains(s.Body, *s.Food) {
		t.Fatalf("new food %v overlaps body %v", s.Food, s.Body)
	}
	if s.HighScore != 1 || store.score != 1 || store.saves != 1 {
		t.Fatalf("high score = %d stored=%d saves=%d; want 1/1/1", s.HighScore, store.score, store.saves)
	}
}

func TestSnakeMovesWithoutGrowing(t *testing.T) {
	e := newTestSnake(t, nil)
	e.body = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	e.dir = DirRight
	e.food = Cell{X: 0, Y: 0}
	e.hasFood = true

	e.Tick()

	want := []Cell{{X: 6, Y: 5}, {X: 5, Y: 5}, {X: 4, Y: 5}}
	for i, c := range want {
		if e.body[i] != c {
			t.Fatalf("body = %v; want %v", e.body, want)
		}
	}
	if len(e.body) != 3 || e.score != 0 {
		t.Fatalf("len=%d score=%d; want 3/0", len(e.body), e.score)
	}
}

func TestSnakeWallCollision(t *testing.T) {
	cases := []struct {
		name string
		head Cell
		dir  Direction
	}{
		{"right", Cell{X: SnakeGridSize - 1, Y: 4}, DirRight},
		{"left", Cell{X: 0, Y: 4}, DirLeft},
		{"up", Cell{X: 4, Y: 0}, DirUp},
		{"down", Cell{X: 4, Y: SnakeGridSize - 1}, DirDown},
	}

	for _, tc := range cases {
		e := newTestSnake(t, nil)
		e.body = []Cell{tc.head}
		e.dir = tc.dir

		e.Tick()

		if !e.IsOver() {
			t.Fatalf("%s: expected game over", tc.name)
		}
		if len(e.body) != 1 || e.body[0] != tc.head {
			t.Fatalf("%s: body changed on collision: %v", tc.name, e.body)
		}
	}
}

func TestSnakeSelfCollisionCountsTail(t *testing.T) {
	e := newTestSnake(t, nil)
	// square loop: moving down from the head lands on the current tail
	e.body = []Cell{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
	e.dir = DirDown
	e.food = Cell{X: 0, Y: 0}

	e.Tick()

	if !e.IsOver() {
		t.Fatalf("expected self collision against the tail")
	}
	if len(e.body) != 4 || e.body[0] != (Cell{X: 5, Y: 5}) {
		t.Fatalf("body changed on collision: %v", e.body)
	}
}

func TestSnakeTurnRules(t *testing.T) {
	cases := []struct {
		from Direction
		key  Key
		want Direction
		ok   bool
	}{
		{DirRight, KeyUp, DirUp, true},
		{DirRight, KeyDown, DirDown, true},
		{DirRight, KeyLeft, DirRight, false},
		{DirRight, KeyRight, DirRight, false},
		{DirUp, KeyDown, DirUp, false},
		{DirUp, KeyLeft, DirLeft, true},
		{DirDown, KeyRight, DirRight, true},
		{DirLeft, KeyRight, DirLeft, false},
	}

	for _, tc := range cases {
		e := newTestSnake(t, nil)
		e.dir = tc.from
		got := e.HandleInput(tc.key)
		if got != tc.ok || e.dir != tc.want {
			t.Fatalf("from %v key %s: dir=%v ok=%v; want %v/%v", tc.from, tc.key, e.dir, got, tc.want, tc.ok)
		}
	}
}

func TestSnakeTwoTurnsBetweenTicksHitNeck(t *testing.T) {
	e := newTestSnake(t, nil)
	e.body = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	e.dir = DirRight
	e.food = Cell{X: 0, Y: 0}

	if !e.HandleInput(KeyUp) || !e.HandleInput(KeyLeft) {
		t.Fatalf("both turns should be accepted")
	}
	if e.dir != DirLeft {
		t.Fatalf("dir = %v; want left", e.dir)
	}

	e.Tick()
	if !e.IsOver() {
		t.Fatalf("moving left from %v should hit the neck", e.body[0])
	}
}

func TestSnakePauseFreezesTicks(t *testing.T) {
	e := newTestSnake(t, nil)
	before := e.SnakeSnapshot().Body[0]

	if !e.HandleInput(KeyPause) || e.State() != StatePaused {
		t.Fatalf("expected paused, got %s", e.State())
	}
	e.Tick()
	if e.SnakeSnapshot().Body[0] != before {
		t.Fatalf("snake moved while paused")
	}

	// turning is still accepted and applies once resumed
	e.HandleInput(KeyDown)
	e.HandleInput(KeyPause)
	if e.State() != StateRunning {
		t.Fatalf("expected running after second toggle, got %s", e.State())
	}
	e.Tick()
	if got := e.SnakeSnapshot().Body[0]; got != (Cell{X: before.X, Y: before.Y + 1}) {
		t.Fatalf("head = %v; want one cell below %v", got, before)
	}
}

func TestSnakeRestartOnlyFromGameOver(t *testing.T) {
	for _, key := range []Key{KeyPause, KeyConfirm} {
		e := newTestSnake(t, nil)
		e.body = []Cell{{X: 0, Y: 0}}
		e.dir = DirLeft
		e.score = 4
		e.Tick()
		if !e.IsOver() {
			t.Fatalf("expected game over")
		}

		if e.HandleInput(KeyUp) {
			t.Fatalf("direction input must be ignored while over")
		}
		if !e.HandleInput(key) {
			t.Fatalf("%s should restart", key)
		}
		s := e.SnakeSnapshot()
		if s.State != StateRunning || s.Score != 0 || len(s.Body) != 1 || s.Body[0] != snakeOrigin {
			t.Fatalf("unexpected state after restart: %+v", s)
		}
	}

	e := newTestSnake(t, nil)
	if e.HandleInput(KeyConfirm) {
		t.Fatalf("confirm must be ignored while running")
	}
}

func TestSnakeHighScoreSurvivesReset(t *testing.T) {
	store := &memStore{score: 12}
	e := newTestSnake(t, store)
	if e.HighScore() != 12 {
		t.Fatalf("high score = %d; want 12 loaded from store", e.HighScore())
	}

	e.body = []Cell{{X: 3, Y: 3}}
	e.dir = DirRight
	e.food = Cell{X: 4, Y: 3}
	e.hasFood = true
	e.Tick()
	if store.saves != 0 {
		t.Fatalf("store written although score did not beat the high score")
	}

	e.Reset()
	if e.HighScore() != 12 || e.Result().Score != 0 {
		t.Fatalf("reset lost high score or kept score: hs=%d score=%d", e.HighScore(), e.Result().Score)
	}
}

func TestSnakeStoreErrorsDoNotStopPlay(t *testing.T) {
	store := &memStore{loadErr: errors.New("down"), saveErr: errors.New("down")}
	e := newTestSnake(t, store)
	e.body = []Cell{{X: 3, Y: 3}}
	e.dir = DirRight
	e.food = Cell{X: 4, Y: 3}
	e.hasFood = true

	e.Tick()

	if e.Result().Score != 1 || e.HighScore() != 1 || e.IsOver() {
		t.Fatalf("play should continue: score=%d hs=%d over=%v", e.Result().Score, e.HighScore(), e.IsOver())
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d; want 1", store.saves)
	}
}

func TestSnakeFoodFallsBackToScan(t *testing.T) {
	e := newTestSnake(t, nil)
	free := Cell{X: 17, Y: 19}
	e.body = e.body[:0]
	for y := 0; y < SnakeGridSize; y++ {
		for x := 0; x < SnakeGridSize; x++ {
			if c := (Cell{X: x, Y: y}); c != free {
				e.body = append(e.body, c)
			}
		}
	}

	e.placeFood()

	if !e.hasFood || e.food != free {
		t.Fatalf("food = %v (has=%v); want %v", e.food, e.hasFood, free)
	}

	e.body = append(e.body, free)
	e.placeFood()
	if e.hasFood {
		t.Fatalf("full grid must leave no food")
	}
}

// TestSnakeRandomPlayInvariants drives the engine with random input and checks
// bounds, overlap, food exclusivity and the growth law on every tick.
func TestSnakeRandomPlayInvariants(t *testing.T) {
	e := newTestSnake(t, nil)
	rng := rand.New(rand.NewSource(42))
	keys := []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyNone}

	for i := 0; i < 5000; i++ {
		if e.IsOver() {
			e.HandleInput(KeyConfirm)
		}
		e.HandleInput(keys[rng.Intn(len(keys))])

		before := e.SnakeSnapshot()
		e.Tick()
		after := e.SnakeSnapshot()

		if after.State != StateRunning {
			continue
		}

		ate := before.Food != nil && after.Body[0] == *before.Food
		switch {
		case ate && len(after.Body) != len(before.Body)+1:
			t.Fatalf("tick %d: ate but length %d -> %d", i, len(before.Body), len(after.Body))
		case !ate && len(after.Body) != len(before.Body):
			t.Fatalf("tick %d: no food but length %d -> %d", i, len(before.Body), len(after.Body))
		}

		seen := make(map[Cell]bool, len(after.Body))
		for _, c := range after.Body {
			if !c.inBounds() {
				t.Fatalf("tick %d: cell %v out of bounds", i, c)
			}
			if seen[c] {
				t.Fatalf("tick %d: duplicate cell %v", i, c)
			}
			seen[c] = true
		}
		if after.Food != nil && seen[*after.Food] {
			t.Fatalf("tick %d: food %v on body", i, *after.Food)
		}
	}
}
