package floor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

// Event types
const (
	EventGuestStatusChanged = "guest_status_changed"
	EventTableStatusChanged = "table_status_changed"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the staff floor-board connections of every venue.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> venue
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

// RegisterClient -> add a connection for the venue board
func (h *Hub) RegisterClient(conn *websocket.Conn, venueID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = venueID
}

// UnregisterClient -> drop and close the connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount -> connections currently watching the venue
func (h *Hub) ClientCount(venueID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, v := range h.clients {
		if v == venueID {
			n++
		}
	}
	return n
}

// BroadcastChange sends a status change to the boards of the change's venue.
func (h *Hub) BroadcastChange(change models.StatusChange) {
	event := EventGuestStatusChanged
	if change.Entity == models.EntityTable {
		event = EventTableStatusChanged
	}
	h.broadcast(change.VenueID, Message{Event: event, Data: change})
}

func (h *Hub) broadcast(venueID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("marshal floor message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, venue := range h.clients {
		if venue != venueID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"venue_id": venueID,
				"event":    msg.Event,
			}).WithError(err).Warn("dropping floor client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
