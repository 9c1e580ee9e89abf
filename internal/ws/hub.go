package ws

import (
	"sync"
	"time"

	"go-boutique-pos/pkg/log"

	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
)

// ChangeEvent tells connected clients that stored data changed and
// their views should be refreshed
type ChangeEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        uint      `json:"id,omitempty"`
	Message   string    `json:"message,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

const EventDataChanged = "data_changed"

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.L.Info("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Notify queues a data_changed event. A nil hub is a no-op and a full
// queue drops the event.
func (h *Hub) Notify(entity, action string, id uint, message string) {
	if h == nil {
		return
	}
	msg, err := jsoniter.Marshal(ChangeEvent{
		Type:      EventDataChanged,
		Entity:    entity,
		Action:    action,
		ID:        id,
		Message:   message,
		EmittedAt: time.Now(),
	})
	if err != nil {
		log.L.WithError(err).Warn("ws: could not encode change event")
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		log.L.WithFields(log.Fields{"entity": entity, "action": action}).Warn("ws: broadcast queue full, event dropped")
	}
}
