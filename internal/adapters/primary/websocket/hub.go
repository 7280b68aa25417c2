package websocket

import (
	"log/slog"
	"sync"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and broadcasts events to them.
type Hub struct {
	// Clients holds all active connections
	clients map[*Client]bool

	// Rooms maps ticket IDs to subscribed clients
	rooms map[string]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast sends an event to the hub's internal broadcast channel.
// This method implements the ports.EventBroadcaster interface.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a client from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; !exists {
		return
	}

	// Get subscriptions before removing from maps
	subscriptions := client.GetSubscriptions()

	// 1. Remove from the global client map
	delete(h.clients, client)

	// 2. Remove from all subscribed rooms
	for _, ticketID := range subscriptions {
		if room, ok := h.rooms[ticketID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, ticketID)
			}
		}
	}

	// 3. Safely close the send channel
	client.CloseSend()

	h.logger.Info("client unregistered",
		"total_connections", len(h.clients),
	)
}

// broadcastEvent delivers an event to interested clients. Clients that
// subscribed to specific tickets receive only events for those tickets;
// clients with no subscriptions receive the full stream.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	recipients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.SubscriptionCount() == 0 || client.HasSubscription(event.TicketID) {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"ticket_id", event.TicketID,
		"client_count", len(recipients),
	)

	for _, client := range recipients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full, unregister them. This runs
			// inside the Run goroutine, so it must not go through the
			// Unregister channel (nobody else is draining it).
			h.logger.Warn("client send buffer full, unregistering")
			h.unregisterClient(client)
		}
	}
}

// subscribeClientToTicket adds a client to a ticket's room
func (h *Hub) subscribeClientToTicket(client *Client, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[ticketID] == nil {
		h.rooms[ticketID] = make(map[*Client]bool)
	}
	h.rooms[ticketID][client] = true
	client.AddSubscription(ticketID)

	h.logger.Debug("client subscribed to ticket", "ticket_id", ticketID)
}

// unsubscribeClientFromTicket removes a client from a ticket's room
func (h *Hub) unsubscribeClientFromTicket(client *Client, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[ticketID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, ticketID)
		}
	}
	client.RemoveSubscription(ticketID)

	h.logger.Debug("client unsubscribed from ticket", "ticket_id", ticketID)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetRoomCount returns the number of active rooms
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientsInRoom returns the number of clients subscribed to a ticket
func (h *Hub) GetClientsInRoom(ticketID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[ticketID]; ok {
		return len(room)
	}
	return 0
}
