package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcade/internal/config"
	"arcade/internal/db"
	"arcade/internal/game"
	httpServer "arcade/internal/http"
	"arcade/internal/http/handlers"
	"arcade/internal/http/middleware"
	"arcade/internal/logger"
	"arcade/internal/repository"
	"arcade/internal/service"
	"arcade/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
	} else {
		logger.Warn("DATABASE_URL not set, players and history are kept in memory")
	}

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
		middleware.InitRedisRateLimiter(rdb)
	}

	deps := handlers.Deps{
		Factory:  game.NewFactoryWithIntervals(cfg.SnakeTick, cfg.TetrisBase),
		Upgrader: ws.NewUpgrader(cfg.AllowedOrigin),
	}
	if dbPool != nil {
		deps.Players = repository.NewPlayerRepository(dbPool)
		deps.History = repository.NewGameHistoryRepository(dbPool)
	} else {
		deps.Players = repository.NewMemoryPlayerRepository()
		deps.History = repository.NewMemoryGameHistoryRepository()
	}
	deps.HighScores = highScoreStore(cfg.HighScoreBackend, dbPool, rdb)

	hub := ws.NewHub(deps.Factory, deps.History, deps.HighScores)
	hub.StartCleanup()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpServer.CORS(cfg.AllowedOrigin))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handlers: deps,
		Hub:      hub,
		DB:       dbPool,
		Redis:    rdb,
		Config:   cfg,
		Version:  version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := hub.Shutdown(ctx); err != nil {
		logger.Error("sessions did not stop in time", "error", err)
	}

	logger.Info("server exited")
}

// highScoreStore picks the leaderboard backend. auto prefers Redis, then
// Postgres, then memory.
func highScoreStore(backend string, pool *pgxpool.Pool, rdb *redis.Client) repository.HighScores {
	switch backend {
	case "redis":
		if rdb != nil {
			return repository.NewRedisHighScoreStore(rdb)
		}
		logger.Warn("HIGHSCORE_BACKEND=redis but redis is unavailable, using memory")
	case "postgres":
		if pool != nil {
			return repository.NewHighScoreRepository(pool)
		}
		logger.Warn("HIGHSCORE_BACKEND=postgres but DATABASE_URL is not set, using memory")
	case "auto":
		if rdb != nil {
			return repository.NewRedisHighScoreStore(rdb)
		}
		if pool != nil {
			return repository.NewHighScoreRepository(pool)
		}
	}
	return repository.NewMemoryHighScoreStore()
}
