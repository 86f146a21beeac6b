// Package server provides the HTTP control surface for the Naagin game daemon.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// gameBroadcastInterval matches the game tick rate so every snapshot a
// client receives is at most one tick old.
const gameBroadcastInterval = 33 * time.Millisecond

// GameHandler broadcasts per-tick game snapshots via WebSocket.
type GameHandler struct {
	game    Controller
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewGameHandler creates a new GameHandler for the given game controller.
func NewGameHandler(g Controller) *GameHandler {
	h := &GameHandler{
		game:    g,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the latest snapshot to all connected clients. Ticks with
// no clients cost nothing beyond the ticker wakeup.
func (h *GameHandler) broadcast() {
	ticker := time.NewTicker(gameBroadcastInterval)
	defer ticker.Stop()

	var lastTick uint64
	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		snap := h.game.Snapshot()
		if snap.Tick == lastTick && snap.Tick != 0 {
			continue
		}
		lastTick = snap.Tick

		msg, err := json.Marshal(snap)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
