package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arcade_sessions_active",
			Help: "Game sessions currently attached to a websocket",
		},
	)
	GamesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcade_games_total",
			Help: "Finished games by game type and end reason",
		},
		[]string{"game", "reason"},
	)
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcade_ticks_total",
			Help: "Engine ticks driven by session loops",
		},
		[]string{"game"},
	)
	LinesCleared = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arcade_lines_cleared_total",
			Help: "Tetris rows cleared across all sessions",
		},
	)
	FoodEaten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arcade_food_eaten_total",
			Help: "Food eaten by snakes across all sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(GamesTotal)
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(LinesCleared)
	prometheus.MustRegister(FoodEaten)
}
