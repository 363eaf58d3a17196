package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// Check probes one backing service.
type Check func(ctx context.Context) error

// HealthHandler reports liveness and the state of whatever backends the
// server was started with.
type HealthHandler struct {
	checks    map[string]Check
	sessions  func() int
	startTime time.Time
	version   string
}

// NewHealthHandler registers checks for the pool and redis client that are
// non-nil; the server may run on in-memory stores only.
func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, version string) *HealthHandler {
	h := &HealthHandler{
		checks:    make(map[string]Check),
		startTime: time.Now(),
		version:   version,
	}
	if db != nil {
		h.checks["database"] = db.Ping
	}
	if rdb != nil {
		h.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return h
}

// AddCheck registers an extra named probe.
func (h *HealthHandler) AddCheck(name string, c Check) {
	h.checks[name] = c
}

// CountSessions makes Readiness report live game sessions.
func (h *HealthHandler) CountSessions(count func() int) {
	h.sessions = count
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Sessions  *int              `json:"sessions,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness (k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// run executes every check and reports whether all passed.
func (h *HealthHandler) run(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names)+1)
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "unhealthy"
			healthy = false
			continue
		}
		results[name] = "healthy"
	}
	return results, healthy
}

// Readiness (k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.run(ctx)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = strconv.FormatFloat(float64(m.Alloc)/1024/1024, 'f', 2, 64)

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if h.sessions != nil {
		n := h.sessions()
		resp.Sessions = &n
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health is the quick combined check used by load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if checks, ok := h.run(ctx); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
