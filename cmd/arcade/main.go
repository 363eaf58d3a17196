package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"arcade/internal/config"
	"arcade/internal/domain"
	"arcade/internal/game"
	"arcade/internal/logger"
	"arcade/internal/repository"
	"arcade/internal/tty"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := config.LoadTerminal()

	gameName := flag.String("game", string(game.TypeSnake), "game to start with: snake or tetris")
	name := flag.String("name", defaultName(), "player name shown on the leaderboard")
	mute := flag.Bool("mute", false, "start with sound off")
	flag.Parse()

	gameType, err := game.ParseGameType(*gameName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// the screen owns stdout, so logs go to a file next to the database
	logPath := filepath.Join(filepath.Dir(cfg.SQLitePath), "arcade.log")
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.InitWriter(logFile, cfg.LogLevel, cfg.LogJSON)

	var scores repository.HighScores
	store, err := repository.OpenSQLiteHighScoreStore(cfg.SQLitePath)
	if err != nil {
		logger.Warn("high scores disabled", "path", cfg.SQLitePath, "error", err)
	} else {
		defer store.Close()
		scores = store
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	sounds := tty.NewSounds()
	if err := sounds.Init(); err != nil {
		// Non-fatal, the games run without sound
		logger.Warn("audio initialization failed", "error", err)
	}
	defer sounds.Close()
	if *mute {
		sounds.Toggle()
	}

	// one local player; the id only has to be stable within the sqlite file
	player := &domain.Player{ID: 1, Name: *name}
	app := tty.NewApp(screen, game.NewFactoryWithIntervals(cfg.SnakeTick, cfg.TetrisBase), scores, player, sounds)
	if err := app.Start(gameType); err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Error("terminal host stopped", "error", err)
	}
}

func defaultName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
