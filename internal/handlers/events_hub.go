package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins during development
	},
}

// GlobalHub is the single event hub for the whole application.
var GlobalHub = NewHub()

// --- Structures ---

// Notification carries the ready-made browser notification text for an
// event. The title and body depend on the transaction type.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// EventMessage is the payload pushed to every connected client when a
// transaction is stored.
type EventMessage struct {
	Type         string             `json:"type"`
	Payload      models.Transaction `json:"payload"`
	Notification Notification       `json:"notification"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// --- Hub methods ---

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Event client registered", "clients", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Event client unregistered", "clients", h.ClientCount())

		case messageData := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- messageData:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// NotifyTransaction broadcasts a stored transaction to every connected
// client, with notification text matching the transaction type. There is
// no replay: clients that are offline miss the event until their next
// full reload.
func (h *Hub) NotifyTransaction(t models.Transaction) {
	msg := EventMessage{
		Type:    "newTransaction",
		Payload: t,
	}

	if t.Type == models.TypeIncome {
		msg.Notification = Notification{
			Title: "💰 Uang Kas Masuk",
			Body:  "Ada pembayaran masuk sebesar " + formatRupiah(t.Amount),
		}
	} else {
		msg.Notification = Notification{
			Title: "💸 Pengeluaran Baru",
			Body:  "Pengeluaran: " + t.Description + " (" + formatRupiah(t.Amount) + ")",
		}
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal event message", "error", err)
		return
	}
	h.broadcast <- messageBytes
}

// --- Client methods and WebSocket endpoint ---

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The event stream is one-way; reads only detect the close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Unexpected websocket close error", "error", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("Failed to write message to websocket", "error", err)
			return
		}
	}
}

func EventsWSEndpoint(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	client := &Client{
		hub:  GlobalHub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
