package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"arcade/internal/domain"
	"arcade/internal/game"
	"arcade/internal/logger"
	"arcade/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	cleanupInterval = 5 * time.Minute
	idleTimeout     = 30 * time.Minute
)

var ErrHubClosed = errors.New("hub is shutting down")

// Hub tracks live sessions. Every connection gets its own session; there is no
// matchmaking.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	factory    *game.Factory
	history    repository.GameHistoryStore
	highScores repository.HighScores

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(factory *game.Factory, history repository.GameHistoryStore, highScores repository.HighScores) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions:   make(map[string]*Session),
		factory:    factory,
		history:    history,
		highScores: highScores,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Open creates an engine and a session for player without attaching a
// connection.
func (h *Hub) Open(player *domain.Player, gameType game.GameType, out chan<- []byte, gone <-chan struct{}) (*Session, error) {
	store := repository.Bind(h.highScores, domain.GameType(gameType), player)
	engine, err := h.factory.CreateGame(gameType, store)
	if err != nil {
		return nil, err
	}

	s := NewSession(uuid.NewString(), player, engine, out, gone).WithStores(h.history, h.highScores)
	for _, info := range h.factory.Describe() {
		if info.Type == gameType {
			s.Info = info
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	h.sessions[s.ID] = s
	return s, nil
}

// Start serves conn in a new goroutine. The session is counted before the
// goroutine exists, so Shutdown always waits for it. Once the hub is shutting
// down the connection is refused with ErrHubClosed.
func (h *Hub) Start(conn *websocket.Conn, player *domain.Player, gameType game.GameType) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		reject(conn, ErrHubClosed)
		return ErrHubClosed
	}
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		h.serve(conn, player, gameType)
	}()
	return nil
}

func (h *Hub) serve(conn *websocket.Conn, player *domain.Player, gameType game.GameType) {
	c := NewClient(player.ID, conn)
	s, err := h.Open(player, gameType, c.Send, c.Done)
	if err != nil {
		logger.Warn("open session failed", "player_id", player.ID, "game", gameType, "error", err)
		reject(conn, err)
		return
	}
	c.Session = s
	defer h.remove(s.ID)

	ctx := logger.NewContext(h.ctx, "session_id", s.ID, "player_id", player.ID, "game", gameType)
	c.Run(ctx)
}

func reject(conn *websocket.Conn, err error) {
	_ = conn.WriteJSON(Message{Type: MsgError, Payload: ErrorPayload{Message: err.Error()}})
	_ = conn.Close()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-h.ctx.Done():
				return
			case <-ticker.C:
				h.cleanupStaleSessions(time.Now(), idleTimeout)
			}
		}
	}()
}

// cleanupStaleSessions closes sessions whose client has been silent for longer
// than maxIdle.
func (h *Hub) cleanupStaleSessions(now time.Time, maxIdle time.Duration) int {
	h.mu.RLock()
	var stale []*Session
	for _, s := range h.sessions {
		if now.Sub(s.LastSeen()) > maxIdle {
			stale = append(stale, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range stale {
		s.Close()
		logger.Info("closed idle session", "session_id", s.ID, "player_id", s.Player.ID)
	}
	return len(stale)
}

// Shutdown stops every session and waits for them to store their results.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
