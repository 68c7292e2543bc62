package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// StateProvider answers REQUEST_STATE messages with the current snapshot of
// an open floor plan. ok is false when the plan is unknown.
type StateProvider func(planID string) (interface{}, bool)

// Hub maintains the set of connected markup clients and broadcasts plan
// updates to each plan's subscribers. The contract is fire-and-forget: no
// acknowledgement, no versioning.
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Answers REQUEST_STATE without the hub knowing about sessions
	stateProvider StateProvider

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(provider StateProvider) *Hub {
	return &Hub{
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		clients:       make(map[string]*Client),
		stateProvider: provider,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
				delete(h.clients, client.ID)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🖊️  Markup client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("📴 Markup client disconnected: %s", client.ID)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToPlan sends a message to every client subscribed to the plan,
// except the one named by excludeClientID (the originator already holds the
// state it sent).
func (h *Hub) BroadcastToPlan(planID string, message interface{}, excludeClientID string) {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.PlanID() != planID || client.ID == excludeClientID {
			continue
		}
		select {
		case client.send <- jsonMsg:
		default:
			// Buffer full or client dead; drop, the contract has no queueing
		}
	}
}

// SendToClient sends a message to one client.
func (h *Hub) SendToClient(clientID string, message interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}

	select {
	case client.send <- jsonMsg:
		return true
	default:
		return false
	}
}

// SubscriberCount returns the number of clients watching a plan.
func (h *Hub) SubscriberCount(planID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, client := range h.clients {
		if client.PlanID() == planID {
			n++
		}
	}
	return n
}
