package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a websocket connection with its identity and the boards it
// has joined.
type client struct {
	id     string
	userID uint64
	conn   *websocket.Conn
	boards map[uint64]bool
}

// Hub manages WebSocket connections grouped into per-board rooms. Clients
// receive events only for boards they explicitly joined; there is no replay
// of events published before the join.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	rooms   map[uint64]map[*client]bool // boardID -> subscribed clients
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		rooms:   make(map[uint64]map[*client]bool),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// unregister drops the client from every room it joined.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c)
	for boardID := range c.boards {
		h.removeFromRoom(c, boardID)
	}
}

func (h *Hub) join(c *client, boardID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[boardID] == nil {
		h.rooms[boardID] = make(map[*client]bool)
	}
	h.rooms[boardID][c] = true
	c.boards[boardID] = true
	log.Printf("realtime: client %s joined board %d (subscribers: %d)", c.id, boardID, len(h.rooms[boardID]))
}

func (h *Hub) leave(c *client, boardID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(c.boards, boardID)
	h.removeFromRoom(c, boardID)
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(c *client, boardID uint64) {
	if conns, ok := h.rooms[boardID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, boardID)
		}
	}
}

// Publish sends an event to every connection subscribed to the board.
// Delivery is fire and forget: a failed write is logged and never fails the
// originating request. The exclusive lock serializes socket writes.
func (h *Hub) Publish(boardID uint64, event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[boardID]
	if len(conns) == 0 {
		return
	}

	msg, err := json.Marshal(Event{Type: event, BoardID: boardID, Data: data})
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", event, err)
		return
	}

	for c := range conns {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("realtime: write to client %s: %v", c.id, err)
		}
	}
}

// SubscriberCount returns the number of clients subscribed to a board.
func (h *Hub) SubscriberCount(boardID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[boardID])
}
