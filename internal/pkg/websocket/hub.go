package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/scholarpath/internal/app/models"
)

// MessageTypeNotification marks a pushed notification
const MessageTypeNotification = "notification"

// Hub maintains the set of active clients per user and pushes messages to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	// Outbound messages addressed to a single user
	outbound chan *Message

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is the envelope written to a websocket client
type Message struct {
	Type         string               `json:"type"`
	UserID       int64                `json:"-"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		outbound:   make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// Run handles client registrations and deliveries until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.outbound:
			h.deliver(message)
		}
	}
}

// Publish pushes a freshly created notification to every open connection of its owner.
// It never blocks; the message is dropped when the hub is saturated.
func (h *Hub) Publish(n *models.Notification) {
	if n == nil {
		return
	}
	h.SendToUser(n.UserID, &Message{Type: MessageTypeNotification, Notification: n})
}

// SendToUser queues a message for one user without blocking
func (h *Hub) SendToUser(userID int64, msg *Message) {
	msg.UserID = userID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	select {
	case h.outbound <- msg:
	default:
		h.logger.Warn().Int64("userID", userID).Msg("Hub queue full, dropping message")
	}
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
		h.logger.Info().Int64("userID", client.userID).Msg("Client unregistered")
	}
}

func (h *Hub) deliver(msg *Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", msg.UserID).Msg("Failed to marshal message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[msg.UserID] {
		select {
		case client.send <- payload:
		default:
			// Slow client
			delete(h.clients[msg.UserID], client)
			close(client.send)
		}
	}
	if len(h.clients[msg.UserID]) == 0 {
		delete(h.clients, msg.UserID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}
