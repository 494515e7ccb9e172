package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/internal/types"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Note: Adjust this for production!
	},
}

// Manager fans game events out to connected browsers: score changes,
// leaderboard re-projections and mint results.
type Manager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client] = true
			m.mutex.Unlock()
		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				client.Close()
			}
			m.mutex.Unlock()
		case message := <-m.broadcast:
			m.mutex.Lock()
			for client := range m.clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					logger.Error("Error broadcasting message: %v", err)
					client.Close()
					delete(m.clients, client)
				}
			}
			m.mutex.Unlock()
		}
	}
}

func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade connection: %v", err)
		http.Error(w, "Could not open websocket connection", http.StatusBadRequest)
		return
	}

	m.register <- conn

	go m.readPump(conn)
	go m.writePump(conn)
}

func (m *Manager) readPump(conn *websocket.Conn) {
	defer func() {
		m.unregister <- conn
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Unexpected close error: %v", err)
			}
			break
		}
		// Clients only listen; inbound frames are drained for ping/pong.
	}
}

func (m *Manager) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for range ticker.C {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

// BroadcastScoreUpdate pushes one player's new balance after a click.
func (m *Manager) BroadcastScoreUpdate(id, username string, score, gain int64, crit bool) error {
	data, err := json.Marshal(map[string]interface{}{
		"type":     "score_update",
		"id":       id,
		"username": username,
		"score":    score,
		"gain":     gain,
		"crit":     crit,
	})
	if err != nil {
		return &errors.WebSocketError{Operation: "marshal score update", Err: err}
	}

	m.broadcast <- data
	return nil
}

// BroadcastLeaderboardUpdate pushes a full top-100 re-projection.
func (m *Manager) BroadcastLeaderboardUpdate(kind db.LeaderboardKind, entries []db.LeaderboardEntry) error {
	data, err := json.Marshal(map[string]interface{}{
		"type":        "leaderboard_update",
		"kind":        kind,
		"leaderboard": entries,
	})
	if err != nil {
		return &errors.WebSocketError{Operation: "marshal leaderboard update", Err: err}
	}

	m.broadcast <- data
	return nil
}

// BroadcastMintEvent announces freshly minted tokens.
func (m *Manager) BroadcastMintEvent(event types.MintEvent) error {
	data, err := json.Marshal(map[string]interface{}{
		"type":  "nft_mint",
		"event": event,
	})
	if err != nil {
		return &errors.WebSocketError{Operation: "marshal mint event", Err: err}
	}

	m.broadcast <- data
	return nil
}
