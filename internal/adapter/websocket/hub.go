package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/observability/telemetry"
)

// Event is the envelope pushed to connected clients: spoken audio, threat
// alerts, dispatch acknowledgements.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub fans server events out to every connected field client. The in-vehicle
// client and any supervisor console all hang off the same hub.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger

	mu sync.RWMutex
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	officerID string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			telemetry.WebsocketConnections.Set(float64(len(h.clients)))
			h.mu.Unlock()
			h.log.Debug("websocket client connected", zap.String("officer_id", client.officerID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			telemetry.WebsocketConnections.Set(float64(len(h.clients)))
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			telemetry.WebsocketConnections.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent pushes a typed event to every connected client.
func (h *Hub) BroadcastEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.broadcast <- data
	return nil
}

// AddClient registers a connection and starts its pumps. Blocks until the
// connection drops so it can run directly inside a Fiber websocket handler.
func (h *Hub) AddClient(conn *websocket.Conn, officerID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), officerID: officerID}
	client.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// Clients on this hub only listen; the read loop exists to notice
		// disconnects and service control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
