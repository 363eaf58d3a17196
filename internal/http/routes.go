package http

import (
	"time"

	"arcade/internal/config"
	"arcade/internal/http/handlers"
	"arcade/internal/http/middleware"
	"arcade/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps is everything the router needs. DB and Redis may be nil.
type Deps struct {
	Handlers handlers.Deps
	Hub      *ws.Hub
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Config   *config.Config
	Version  string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{APIRateLimit: 60, APIRateWindow: 60, SessionRateLimit: 30, SessionRateWindow: 60}
	}

	h := handlers.NewHandler(d.Handlers)
	if h.Upgrader == nil {
		h.Upgrader = ws.NewUpgrader(cfg.AllowedOrigin)
	}
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis, d.Version)
	if d.Hub != nil {
		healthHandler.CountSessions(d.Hub.Count)
	}

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	sessionRateWindow := time.Duration(cfg.SessionRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, apiRateWindow))

	v1.POST("/auth/guest", h.Guest)
	v1.GET("/games", h.Games)
	v1.GET("/leaderboard/:game", h.GetLeaderboard)

	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/me/games", middleware.JWT(), h.MyGames)
	v1.GET("/me/highscores", middleware.JWT(), h.MyHighScores)

	// One websocket per game session, limited per player
	r.GET("/ws",
		middleware.JWT(),
		middleware.SessionRateLimit(cfg.SessionRateLimit, sessionRateWindow),
		h.WS(d.Hub),
	)
}

// CORS reflects the request origin, or only allowed when it is set.
func CORS(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowed == "" || origin == allowed) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
