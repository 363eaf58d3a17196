// Package tty hosts the games in a terminal: tcell draws the board and
// delivers keys, a timer drives Tick at the engine's current Interval.
package tty

import (
	"context"
	"log/slog"
	"time"

	"arcade/internal/domain"
	"arcade/internal/game"
	"arcade/internal/logger"
	"arcade/internal/repository"

	"github.com/gdamore/tcell/v2"
)

const storeTimeout = 2 * time.Second

type App struct {
	screen  tcell.Screen
	factory *game.Factory
	scores  repository.HighScores
	player  *domain.Player
	sounds  *Sounds
	log     *slog.Logger

	engine   game.Engine
	best     int
	recorded bool
	message  string
}

// NewApp wires a screen to the games. scores may be nil to play without
// persistence.
func NewApp(screen tcell.Screen, factory *game.Factory, scores repository.HighScores, player *domain.Player, sounds *Sounds) *App {
	if factory == nil {
		factory = game.NewFactory()
	}
	if sounds == nil {
		sounds = NewSounds()
	}
	return &App{
		screen:  screen,
		factory: factory,
		scores:  scores,
		player:  player,
		sounds:  sounds,
		log:     logger.With("host", "terminal"),
	}
}

// Start replaces the active engine with a fresh game of the given type.
func (a *App) Start(gameType game.GameType) error {
	engine, err := a.factory.CreateGame(gameType, repository.Bind(a.scores, domain.GameType(gameType), a.player))
	if err != nil {
		return err
	}
	a.engine = engine
	a.recorded = false
	a.message = ""
	a.loadBest()
	return nil
}

func (a *App) Engine() game.Engine { return a.engine }

// Run draws and plays until ctx is done or the player quits.
func (a *App) Run(ctx context.Context) error {
	if a.engine == nil {
		if err := a.Start(game.TypeSnake); err != nil {
			return err
		}
	}

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.draw()
	timer := time.NewTimer(a.engine.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-timer.C:
			a.step()
			timer.Reset(a.engine.Interval())
		}
		a.draw()
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// handleKey returns false when the player asked to quit.
func (a *App) handleKey(key tcell.Key, r rune) bool {
	k, action := mapKey(key, r)
	switch action {
	case ActionQuit:
		return false
	case ActionMute:
		a.sounds.Toggle()
		return true
	case ActionSwitch:
		next := game.TypeTetris
		if a.engine.Type() == game.TypeTetris {
			next = game.TypeSnake
		}
		if err := a.Start(next); err != nil {
			a.log.Error("switch game failed", "game", next, "error", err)
		}
		return true
	}

	if k == game.KeyNone {
		return true
	}

	wasOver := a.engine.IsOver()
	accepted := a.engine.HandleInput(k)
	if !accepted && wasOver && k == game.KeyConfirm {
		a.engine.Reset()
	}
	if wasOver && !a.engine.IsOver() {
		a.recorded = false
		a.message = ""
		a.loadBest()
	}
	a.checkOver()
	return true
}

// step advances the active game by one tick and plays cues for what changed.
func (a *App) step() {
	switch a.engine.State() {
	case game.StatePaused, game.StateOver:
		return
	}

	prev := a.engine.Result()
	a.engine.Tick()
	cur := a.engine.Result()

	if cur.Score > prev.Score && a.engine.Type() == game.TypeSnake {
		a.sounds.Play(CueEat)
	}
	if cur.Lines > prev.Lines {
		a.sounds.Play(CueLine)
	}
	a.checkOver()
}

func (a *App) checkOver() {
	if !a.engine.IsOver() || a.recorded {
		return
	}
	a.recorded = true
	a.sounds.Play(CueOver)

	res := a.engine.Result()
	a.log.Info("game finished", "game", a.engine.Type(), "score", res.Score, "lines", res.Lines, "level", res.Level)

	// snake persists its own high score through the bound store
	if a.engine.Type() != game.TypeTetris || a.scores == nil || a.player == nil || res.Score <= 0 {
		return
	}
	if res.Score > a.best {
		a.message = "New best!"
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := a.scores.Set(ctx, domain.GameTypeTetris, a.player, res.Score); err != nil {
		a.log.Warn("store high score failed", "error", err)
		return
	}
	a.best = max(a.best, res.Score)
}

func (a *App) loadBest() {
	a.best = 0
	if a.scores == nil || a.player == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	best, err := a.scores.Get(ctx, domain.GameType(a.engine.Type()), a.player.ID)
	if err != nil {
		a.log.Warn("load high score failed", "error", err)
		return
	}
	a.best = best
}

func (a *App) draw() {
	st := status{Best: a.best, Muted: a.sounds.Muted(), Message: a.message}
	if a.player != nil {
		st.Player = a.player.Name
	}
	render(a.screen, a.engine, st)
}
