package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/nebula/internal/app"
	"github.com/ayusman/nebula/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// broadcastInterval is the state stream tick, ~30 FPS. The renderer
// interpolates between frames, so the stream can run slower than the
// display refresh.
const broadcastInterval = 33 * time.Millisecond

// StateHandler broadcasts the render state (camera pose, scene transform,
// grab telemetry) to connected viewers via WebSocket.
type StateHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	once    sync.Once
}

// NewStateHandler creates a StateHandler and starts its broadcast loop.
func NewStateHandler(a *app.App) *StateHandler {
	h := &StateHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Close stops the broadcast loop. Connected clients stop receiving
// snapshots but their connections are left to close themselves. Safe to
// call more than once.
func (h *StateHandler) Close() {
	h.once.Do(func() { close(h.stopCh) })
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	metrics.UpdateWSClients(len(h.clients))
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		metrics.UpdateWSClients(len(h.clients))
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast advances the ambient animation and pushes one snapshot per
// tick to every connected client. The animation keeps running with no
// clients so a late joiner sees a scene mid-drift, not a frozen one.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}

		now := time.Now()
		h.app.Advance(now.Sub(last).Seconds())
		last = now

		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 0 {
			continue
		}

		snap := h.app.Snapshot(now)
		metrics.UpdateCameraRadius(snap.Radius)

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
