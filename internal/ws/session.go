package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"arcade/internal/domain"
	"arcade/internal/game"
	"arcade/internal/logger"
	"arcade/internal/repository"
)

const (
	sendTimeout  = 500 * time.Millisecond
	storeTimeout = 5 * time.Second
	inboxSize    = 32
)

// Session drives one engine for one connected player. Ticks and inputs are
// applied from the same goroutine, so the engine sees them strictly in order.
type Session struct {
	ID     string
	Player *domain.Player
	Game   game.GameType
	Info   game.Info

	engine     game.Engine
	history    repository.GameHistoryStore
	highScores repository.HighScores
	log        *slog.Logger

	out  chan<- []byte
	gone <-chan struct{}

	inbox     chan InboundMessage
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
	createdAt time.Time
	lastSeen  atomic.Int64

	// current game, touched only by the loop
	startedAt time.Time
	ticks     int
	recorded  bool
}

// NewSession wires an engine to an outbound channel. gone is closed when the
// peer disconnects.
func NewSession(id string, player *domain.Player, engine game.Engine, out chan<- []byte, gone <-chan struct{}) *Session {
	s := &Session{
		ID:        id,
		Player:    player,
		Game:      engine.Type(),
		engine:    engine,
		log:       logger.With("session_id", id, "player_id", player.ID, "game", string(engine.Type())),
		out:       out,
		gone:      gone,
		inbox:     make(chan InboundMessage, inboxSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
	s.lastSeen.Store(s.createdAt.UnixNano())
	return s
}

// WithStores attaches result persistence. Either store may be nil.
func (s *Session) WithStores(history repository.GameHistoryStore, highScores repository.HighScores) *Session {
	s.history = history
	s.highScores = highScores
	return s
}

// Deliver decodes a raw client frame and queues it for the loop. Frames that
// arrive after the loop has exited are dropped.
func (s *Session) Deliver(raw []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		msg = InboundMessage{}
	}
	s.lastSeen.Store(time.Now().UnixNano())

	select {
	case s.inbox <- msg:
	case <-s.done:
	}
}

// Close asks the loop to stop. Safe to call more than once.
func (s *Session) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed after Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Run is the host loop: it re-arms its timer from engine.Interval() after
// every tick so level changes take effect immediately.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	SessionsActive.Inc()
	defer SessionsActive.Dec()

	s.log.Info("session started")
	s.send(Message{Type: MsgReady, Payload: ReadyPayload{
		SessionID: s.ID,
		Game:      s.Game,
		Player:    s.Player,
		Info:      s.Info,
	}})
	s.begin()
	s.sendState()

	timer := time.NewTimer(s.engine.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finish("shutdown")
			return
		case <-s.stop:
			s.finish("closed")
			return
		case <-s.gone:
			s.finish("disconnect")
			return
		case msg := <-s.inbox:
			s.handle(msg)
		case <-timer.C:
			s.tick()
			timer.Reset(s.engine.Interval())
		}
	}
}

func (s *Session) handle(msg InboundMessage) {
	switch msg.Type {
	case MsgPing:
		s.send(Message{Type: MsgPong})
	case MsgInput:
		if k := game.ParseKey(msg.Key); k != game.KeyNone {
			s.applyKey(k)
		}
	default:
		s.send(Message{Type: MsgError, Payload: ErrorPayload{Message: "unknown message type"}})
	}
}

// applyKey forwards a key to the engine. Enter on a finished game resets it
// for engines that do not restart on their own.
func (s *Session) applyKey(k game.Key) {
	wasOver := s.engine.IsOver()
	accepted := s.engine.HandleInput(k)
	if !accepted && wasOver && k == game.KeyConfirm {
		s.engine.Reset()
		accepted = true
	}
	if !accepted {
		return
	}
	if wasOver && !s.engine.IsOver() {
		s.begin()
	}
	s.afterChange()
}

func (s *Session) tick() {
	before := s.engine.State()
	if before == game.StatePaused || before == game.StateOver {
		return
	}

	prev := s.engine.Result()
	s.engine.Tick()
	s.ticks++
	TicksTotal.WithLabelValues(string(s.Game)).Inc()

	cur := s.engine.Result()
	switch s.Game {
	case game.TypeSnake:
		if d := cur.Score - prev.Score; d > 0 {
			FoodEaten.Add(float64(d))
		}
	case game.TypeTetris:
		if d := cur.Lines - prev.Lines; d > 0 {
			LinesCleared.Add(float64(d))
		}
	}

	s.afterChange()
}

func (s *Session) afterChange() {
	s.sendState()
	if s.engine.IsOver() && !s.recorded {
		payload := s.record(domain.EndReasonGameOver)
		s.send(Message{Type: MsgGameOver, Payload: payload})
	}
}

func (s *Session) begin() {
	s.startedAt = time.Now()
	s.ticks = 0
	s.recorded = false
}

// finish stores an abandoned game when the player leaves mid-game.
func (s *Session) finish(cause string) {
	if !s.recorded && s.ticks > 0 && !s.engine.IsOver() {
		s.record(domain.EndReasonAbandoned)
	}
	s.log.Info("session ended", "cause", cause)
}

func (s *Session) record(reason domain.EndReason) GameOverPayload {
	s.recorded = true
	res := s.engine.Result()
	duration := time.Since(s.startedAt)

	GamesTotal.WithLabelValues(string(s.Game), string(reason)).Inc()
	s.log.Info("game finished", "reason", reason, "score", res.Score, "lines", res.Lines, "level", res.Level)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if s.history != nil {
		gh := &domain.GameHistory{
			PlayerID:   s.Player.ID,
			GameType:   domain.GameType(s.Game),
			SessionID:  s.ID,
			Score:      res.Score,
			Lines:      res.Lines,
			Level:      res.Level,
			Reason:     reason,
			DurationMs: duration.Milliseconds(),
		}
		if err := s.history.Create(ctx, gh); err != nil {
			s.log.Warn("store game history failed", "error", err)
		}
	}

	if s.highScores != nil && res.Score > 0 {
		if err := s.highScores.Set(ctx, domain.GameType(s.Game), s.Player, res.Score); err != nil {
			s.log.Warn("store high score failed", "error", err)
		}
	}

	return GameOverPayload{Result: res, Reason: reason, DurationMs: duration.Milliseconds()}
}

func (s *Session) sendState() {
	s.send(Message{Type: MsgState, Payload: s.engine.Snapshot()})
}

func (s *Session) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal message failed", "type", msg.Type, "error", err)
		return
	}

	select {
	case s.out <- data:
	case <-time.After(sendTimeout):
		s.log.Warn("send timeout, dropping message", "type", msg.Type)
	}
}
