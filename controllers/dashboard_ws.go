package controller

import (
	"sync"
	"time"

	"agencydesk/utils"

	"github.com/gofiber/websocket/v2"
)

// SyncNotification is one message pushed to dashboard clients when the
// metrics worker finishes an account.
type SyncNotification struct {
	Event       string    `json:"event"`
	AdAccountID string    `json:"ad_account_id"`
	Platform    string    `json:"platform"`
	SyncedAt    time.Time `json:"synced_at"`
}

// Hub fans sync notifications out to connected dashboard websockets. Slow
// or gone clients are dropped instead of blocking the worker.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: map[*websocket.Conn]struct{}{}}
}

// Broadcast sends the notification to every connected client. Write errors
// evict the client.
func (h *Hub) Broadcast(n SyncNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(n); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount reports how many dashboard clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// LiveFeed is the websocket handler for /dashboard/live. The connection is
// push-only; client frames are read and discarded to keep control frames
// flowing.
func (h *Hub) LiveFeed(conn *websocket.Conn) {
	h.add(conn)
	utils.LogEvent("dashboard_client_connected", map[string]interface{}{
		"clients": h.ClientCount(),
	})

	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
