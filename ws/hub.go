package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans moderation-queue events out to connected admin dashboards.

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	AdminClients map[*websocket.Conn]*Client
	Mutex        sync.RWMutex
}

var H = Hub{
	AdminClients: make(map[*websocket.Conn]*Client),
}

// ModerationEvent is pushed when a request is submitted or decided.
type ModerationEvent struct {
	Event       string `json:"event"` // submitted | approved | rejected
	RequestID   string `json:"request_id"`
	RequestType string `json:"request_type"`
	Status      string `json:"status"`
	SubmittedBy string `json:"submitted_by"`
}

func (h *Hub) RegisterAdmin(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.AdminClients[conn] = client

	go h.readPump(conn)
	go h.writePump(conn)
}

func (h *Hub) UnregisterAdmin(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.AdminClients[conn]; ok {
		close(client.Send)
		delete(h.AdminClients, conn)
	}
}

// BroadcastModeration sends an event to every connected admin. Slow
// clients are skipped rather than blocking the sender.
func (h *Hub) BroadcastModeration(event ModerationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("cannot marshal moderation event:", err)
		return
	}

	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.AdminClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) readPump(conn *websocket.Conn) {
	defer func() {
		h.UnregisterAdmin(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	h.Mutex.RLock()
	client, ok := h.AdminClients[conn]
	h.Mutex.RUnlock()
	if !ok {
		return
	}

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
