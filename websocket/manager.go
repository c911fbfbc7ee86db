// Package websocket delivers realtime events to signed-in clients: new
// notifications, chat messages, room creation and post closure. It replaces
// the polling a client would otherwise do against the notification and chat
// collections.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"spot/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Client struct {
	id      string
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

type Manager struct {
	// clients indexed by user id; a user may hold several connections
	// (multiple tabs/devices).
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]struct{})
			}
			m.clients[client.userID][client] = struct{}{}
			m.mu.Unlock()
			log.Printf("WebSocket client %s registered for user %s", client.id, client.userID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(m.clients, client.userID)
					}
				}
			}
			m.mu.Unlock()
			log.Printf("WebSocket client %s unregistered", client.id)

		case message := <-m.broadcast:
			m.mu.RLock()
			for _, conns := range m.clients {
				for client := range conns {
					select {
					case client.send <- message:
					default:
						// Slow consumer, drop the connection
					}
				}
			}
			m.mu.RUnlock()
		}
	}
}

// SendToUser delivers an event to every live connection of one user.
// Delivery is best-effort: users without a connection are silently skipped,
// and callers that need the payload to survive a missed delivery persist it
// themselves (notification writes do).
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling websocket event: %v", err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.clients[userID] {
		select {
		case client.send <- msg:
		default:
		}
	}
}

// SendToUsers fans an event out to several users.
func (m *Manager) SendToUsers(userIDs []string, eventType string, payload interface{}) {
	for _, id := range userIDs {
		m.SendToUser(id, eventType, payload)
	}
}

// ConnectedUsers returns the number of distinct users currently connected.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the connection after validating the session token passed
// as ?token= (browsers cannot set headers on websocket handshakes).
func Handler(manager *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		userID, err := middleware.ParseToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			userID:  userID,
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

		welcome, _ := json.Marshal(Event{
			Type: "connected",
			Payload: map[string]interface{}{
				"userId": userID,
				"time":   time.Now().Unix(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		// Clients only send keepalives; all data flows server-to-client.
		if event.Type == "ping" {
			pong, _ := json.Marshal(Event{
				Type:    "pong",
				Payload: map[string]interface{}{"time": time.Now().Unix()},
			})
			select {
			case c.send <- pong:
			default:
			}
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
