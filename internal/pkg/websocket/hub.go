package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

// Notification is pushed to connected users when something they care about changes
type Notification struct {
	Type              string    `json:"type"`
	ApplicationID     string    `json:"applicationId,omitempty"`
	ScholarshipID     string    `json:"scholarshipId,omitempty"`
	ScholarshipName   string    `json:"scholarshipName,omitempty"`
	ApplicationStatus string    `json:"applicationStatus,omitempty"`
	PaymentStatus     string    `json:"paymentStatus,omitempty"`
	Message           string    `json:"message,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

type envelope struct {
	// recipient is an e-mail; empty means "every client holding one of roles"
	recipient string
	roles     []string
	payload   []byte
}

// Hub tracks connected clients by user e-mail and fans notifications out to them
type Hub struct {
	clients map[string]map[*Client]bool

	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(lgr zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Component(lgr, "ws-hub"),
	}
}

// Run processes registrations and deliveries until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.email]; !ok {
		h.clients[client.email] = make(map[*Client]bool)
	}
	h.clients[client.email][client] = true

	h.logger.Debug().Str("email", client.email).Str("addr", client.remoteAddr).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.email]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.email)
	}
	h.logger.Debug().Str("email", client.email).Str("addr", client.remoteAddr).Msg("Client unregistered")
}

func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	if env.recipient != "" {
		for c := range h.clients[env.recipient] {
			targets = append(targets, c)
		}
	} else {
		for _, conns := range h.clients {
			for c := range conns {
				if c.hasRole(env.roles) {
					targets = append(targets, c)
				}
			}
		}
	}

	for _, c := range targets {
		select {
		case c.send <- env.payload:
		default:
			h.logger.Warn().Str("email", c.email).Msg("Dropping slow websocket client")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for c := range conns {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) enqueue(env envelope) {
	select {
	case h.broadcast <- env:
	case <-h.done:
	default:
		h.logger.Warn().Msg("Notification queue full, dropping notification")
	}
}

// SendToUser queues n for every connection of the user with email
func (h *Hub) SendToUser(email string, n Notification) {
	payload, err := h.encode(n)
	if err != nil {
		return
	}
	h.enqueue(envelope{recipient: strings.ToLower(email), payload: payload})
}

// SendToRoles queues n for every connection whose user holds one of roles
func (h *Hub) SendToRoles(n Notification, roles ...string) {
	payload, err := h.encode(n)
	if err != nil {
		return
	}
	h.enqueue(envelope{roles: roles, payload: payload})
}

func (h *Hub) encode(n Notification) ([]byte, error) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Str("type", n.Type).Msg("Failed to marshal notification")
		return nil, err
	}
	return payload, nil
}

// ClientCount returns the number of open connections for email
func (h *Hub) ClientCount(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[strings.ToLower(email)])
}
