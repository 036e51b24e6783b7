package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/LouayBenCerifa/GestionDeProjet/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

// Event is the wire frame pushed to browser clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Manager tracks connected clients per user and delivers chat and
// notification events to the connections of the users they concern.
type Manager struct {
	clients    map[string]map[*Client]bool // userID -> connections
	register   chan *Client
	unregister chan *Client
	deliver    chan targeted
}

type targeted struct {
	userID string
	data   []byte
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan targeted, 64),
	}
}

// Start runs the event loop. All map access happens here, so no lock is
// needed.
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]bool)
			}
			m.clients[client.userID][client] = true
			log.Printf("WebSocket client registered for user %s", client.userID)

		case client := <-m.unregister:
			if conns, ok := m.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
				}
				if len(conns) == 0 {
					delete(m.clients, client.userID)
				}
			}
			log.Printf("WebSocket client unregistered for user %s", client.userID)

		case t := <-m.deliver:
			for client := range m.clients[t.userID] {
				select {
				case client.send <- t.data:
				default:
					close(client.send)
					delete(m.clients[t.userID], client)
				}
			}
		}
	}
}

// SendToUser pushes an event to every open connection of one user.
func (m *Manager) SendToUser(userID, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling WebSocket event: %v", err)
		return
	}
	m.deliver <- targeted{userID: userID, data: data}
}

// NotifyNewMessage pushes a chat message to both participants.
func (m *Manager) NotifyNewMessage(msg models.Message) {
	m.SendToUser(msg.RecipientID, "new_message", msg)
	m.SendToUser(msg.SenderID, "new_message", msg)
}

// NotifyMessagesRead tells the sender their messages were seen.
func (m *Manager) NotifyMessagesRead(senderID, conversationID string) {
	m.SendToUser(senderID, "messages_read", map[string]interface{}{
		"conversationId": conversationID,
		"timestamp":      time.Now().Unix(),
	})
}

// NotifyNotification pushes a freshly created notification to its target.
func (m *Manager) NotifyNotification(n models.Notification) {
	m.SendToUser(n.UserID, "notification", n)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Handler upgrades the connection after validating the JWT passed as the
// token query parameter.
func Handler(manager *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		claims := &wsClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  claims.UserID,
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

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
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
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

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}

		// Clients only send keepalives; all state changes go through the
		// HTTP API.
		if data["type"] == "ping" {
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
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
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendPong() {
	data, err := json.Marshal(Event{Type: "pong", Payload: map[string]int64{"time": time.Now().Unix()}})
	if err != nil {
		return
	}
	c.send <- data
}
