package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	gameName := flag.String("game", "snake", "snake or tetris")
	name := flag.String("name", "smoke", "guest name")
	states := flag.Int("states", 20, "state frames to print before leaving")
	flag.Parse()

	token := signIn(*addr, *name)

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://%s/ws?game=%s&token=%s", *addr, *gameName, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	keys := []string{"ArrowUp", "ArrowLeft", "ArrowDown", "ArrowRight"}
	seen := 0
	for seen < *states {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Fatalf("bad frame: %v", err)
		}

		switch msg.Type {
		case "ready":
			log.Printf("ready %s", msg.Payload)
		case "state":
			seen++
			log.Printf("state #%d %s", seen, msg.Payload)
			if seen%5 == 0 {
				key := keys[(seen/5)%len(keys)]
				if err := conn.WriteJSON(map[string]string{"type": "input", "key": key}); err != nil {
					log.Fatalf("write: %v", err)
				}
			}
		case "game_over":
			log.Printf("game over %s", msg.Payload)
			return
		default:
			log.Printf("%s %s", msg.Type, msg.Payload)
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	log.Println("smoke ok")
}

func signIn(addr, name string) string {
	body, _ := json.Marshal(map[string]string{"name": name})
	res, err := http.Post("http://"+addr+"/api/v1/auth/guest", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("guest sign in: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Fatalf("guest sign in: status %d", res.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		log.Fatalf("decode token: %v", err)
	}
	return out.Token
}
