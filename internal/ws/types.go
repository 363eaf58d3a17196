package ws

const (
	// client - server
	MsgInput = "input"
	MsgPing  = "ping"

	// server - client
	MsgReady    = "ready"
	MsgState    = "state"
	MsgGameOver = "game_over"
	MsgPong     = "pong"
	MsgError    = "error"
)

// Message is the server-to-client envelope.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InboundMessage is what clients send: {"type":"input","key":"ArrowUp"}.
type InboundMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}
