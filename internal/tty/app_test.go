package tty

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arcade/internal/domain"
	"arcade/internal/game"
	"arcade/internal/repository"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

// screenText returns the whole screen as lines of text.
func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func newTestApp(t *testing.T, scores repository.HighScores) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := newScreen(t)
	f := game.NewFactoryWithIntervals(5*time.Millisecond, 5*time.Millisecond)
	app := NewApp(screen, f, scores, &domain.Player{ID: 1, Name: "local"}, nil)
	if err := app.Start(game.TypeSnake); err != nil {
		t.Fatal(err)
	}
	return app, screen
}

func TestMapKey(t *testing.T) {
	cases := []struct {
		key    tcell.Key
		r      rune
		want   game.Key
		action Action
	}{
		{tcell.KeyUp, 0, game.KeyUp, ActionNone},
		{tcell.KeyLeft, 0, game.KeyLeft, ActionNone},
		{tcell.KeyEnter, 0, game.KeyConfirm, ActionNone},
		{tcell.KeyRune, ' ', game.KeyPause, ActionNone},
		{tcell.KeyRune, 'w', game.KeyUp, ActionNone},
		{tcell.KeyRune, 'q', game.KeyNone, ActionQuit},
		{tcell.KeyEscape, 0, game.KeyNone, ActionQuit},
		{tcell.KeyRune, 'm', game.KeyNone, ActionMute},
		{tcell.KeyTab, 0, game.KeyNone, ActionSwitch},
		{tcell.KeyRune, 'z', game.KeyNone, ActionNone},
	}
	for _, tc := range cases {
		k, a := mapKey(tc.key, tc.r)
		if k != tc.want || a != tc.action {
			t.Errorf("mapKey(%v, %q) = %v, %v; want %v, %v", tc.key, tc.r, k, a, tc.want, tc.action)
		}
	}
}

func TestSwitchAndQuit(t *testing.T) {
	app, _ := newTestApp(t, nil)

	if !app.handleKey(tcell.KeyTab, 0) || app.Engine().Type() != game.TypeTetris {
		t.Fatalf("tab should switch to tetris")
	}
	if !app.handleKey(tcell.KeyTab, 0) || app.Engine().Type() != game.TypeSnake {
		t.Fatalf("tab should switch back to snake")
	}
	if app.handleKey(tcell.KeyRune, 'q') {
		t.Fatalf("q should quit")
	}
}

func TestMuteToggle(t *testing.T) {
	app, screen := newTestApp(t, nil)

	app.handleKey(tcell.KeyRune, 'm')
	if !app.sounds.Muted() {
		t.Fatalf("m should mute")
	}
	app.draw()
	if !strings.Contains(screenText(screen), "Sound: off") {
		t.Fatalf("sidebar does not show muted sound")
	}
}

func TestSnakeDrawsBoard(t *testing.T) {
	app, screen := newTestApp(t, nil)
	app.draw()

	text := screenText(screen)
	for _, want := range []string{"SNAKE", "Score: 0", "Length: 1", "Player: local"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q", want)
		}
	}

	app.handleKey(tcell.KeyRune, ' ')
	app.draw()
	if !strings.Contains(screenText(screen), "PAUSED") {
		t.Fatalf("pause overlay missing")
	}
}

func TestTetrisGameOverStoresBest(t *testing.T) {
	store, err := repository.OpenSQLiteHighScoreStore(filepath.Join(t.TempDir(), "arcade.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	player := &domain.Player{ID: 1, Name: "local"}
	if err := store.Set(ctx, domain.GameTypeTetris, player, 1); err != nil {
		t.Fatal(err)
	}

	app, screen := newTestApp(t, store)
	app.handleKey(tcell.KeyTab, 0)
	if app.best != 1 {
		t.Fatalf("best = %d; want 1 loaded from store", app.best)
	}

	for i := 0; i < 10000 && !app.Engine().IsOver(); i++ {
		app.step()
	}
	if !app.Engine().IsOver() {
		t.Fatalf("tetris never ended")
	}
	if app.sounds.played == 0 {
		t.Fatalf("no cue played on game over")
	}

	app.draw()
	if !strings.Contains(screenText(screen), "GAME OVER") {
		t.Fatalf("game over overlay missing")
	}

	// ticks are ignored once over
	res := app.Engine().Result()
	app.step()
	if app.Engine().Result() != res {
		t.Fatalf("result changed after game over")
	}

	if res.Score > 1 {
		if got, _ := store.Get(ctx, domain.GameTypeTetris, player.ID); got != res.Score {
			t.Fatalf("stored best = %d; want %d", got, res.Score)
		}
	}

	// space does not restart tetris, enter does
	app.handleKey(tcell.KeyRune, ' ')
	if !app.Engine().IsOver() {
		t.Fatalf("space restarted tetris")
	}
	app.handleKey(tcell.KeyEnter, 0)
	if app.Engine().IsOver() || app.recorded {
		t.Fatalf("enter did not start a new game")
	}
}

func TestSnakeRestartsOnSpace(t *testing.T) {
	app, _ := newTestApp(t, nil)
	for i := 0; i < 1000 && !app.Engine().IsOver(); i++ {
		app.step()
	}
	if !app.Engine().IsOver() {
		t.Fatalf("snake never hit a wall")
	}
	app.handleKey(tcell.KeyRune, ' ')
	if app.Engine().IsOver() {
		t.Fatalf("space should restart snake")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	app, screen := newTestApp(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return after context was done")
	}

	if !strings.Contains(screenText(screen), "SNAKE") {
		t.Fatalf("nothing drawn")
	}
}

func TestSoundsWithoutDevice(t *testing.T) {
	s := NewSounds()
	s.Play(CueEat)
	s.Play(CueLine)
	if s.played != 2 {
		t.Fatalf("played = %d; want 2", s.played)
	}
	if !s.Toggle() {
		t.Fatalf("toggle should mute")
	}
	s.Play(CueOver)
	if s.played != 2 {
		t.Fatalf("muted cue counted")
	}
	s.Close()
}
