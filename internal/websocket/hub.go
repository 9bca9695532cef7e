package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSeatsUpdated MessageType = "seats_updated"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message represents a WebSocket message
type Message struct {
	Type           MessageType `json:"type"`
	FlightID       string      `json:"flightId"`
	AvailableSeats int         `json:"availableSeats"`
	Timestamp      int64       `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	flightID string
}

// Hub fans seat updates out to the clients watching each flight
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	log        logrus.FieldLogger
}

// NewHub creates a new Hub; call Run before serving clients.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.WithField("component", "websocket"),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for flightID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, flightID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flightID] == nil {
				h.clients[client.flightID] = make(map[*Client]bool)
			}
			h.clients[client.flightID][client] = true
			total := len(h.clients[client.flightID])
			h.mu.Unlock()
			h.log.WithFields(logrus.Fields{"flight": client.flightID, "total": total}).Debug("client registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.log.WithError(err).Error("failed to marshal message")
				continue
			}

			h.mu.Lock()
			clients := h.clients[message.FlightID]
			for client := range clients {
				select {
				case client.send <- data:
				default:
					delete(clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.flightID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		h.log.WithFields(logrus.Fields{"flight": client.flightID, "remaining": len(clients)}).Debug("client unregistered")
		if len(clients) == 0 {
			delete(h.clients, client.flightID)
		}
	}
}

// NotifySeats broadcasts a flight's new seat count. Never blocks; the
// update is dropped when the broadcast queue is full.
func (h *Hub) NotifySeats(update models.SeatUpdate) {
	msg := &Message{
		Type:           MessageTypeSeatsUpdated,
		FlightID:       update.FlightID,
		AvailableSeats: update.AvailableSeats,
		Timestamp:      time.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.WithField("flight", update.FlightID).Warn("broadcast queue full, dropping seat update")
	}
}

// ClientCount returns the number of clients watching a flight
func (h *Hub) ClientCount(flightID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightID])
}

// Serve upgrades the request and subscribes the connection to flightID
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, flightID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		flightID: flightID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return errors.New("hub stopped")
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump only drains control frames; clients never send data.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
