package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/hasta/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ObservationsHandler pushes classified observations from the live
// pipeline to WebSocket clients as JSON messages.
type ObservationsHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	once    sync.Once
}

// NewObservationsHandler creates a new ObservationsHandler fed by the
// given pipeline.
func NewObservationsHandler(a *app.App) *ObservationsHandler {
	return &ObservationsHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ObservationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.once.Do(func() { go h.broadcast() })

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

// broadcast forwards pipeline observations to all connected clients.
func (h *ObservationsHandler) broadcast() {
	obsCh, cancel := h.app.Subscribe()
	defer cancel()

	for obs := range obsCh {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		msg, err := json.Marshal(obs)
		if err != nil {
			h.mu.RUnlock()
			continue
		}

		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
