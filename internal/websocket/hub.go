package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a client that has gone away
// or cannot keep up with the event stream.
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is the hub's view of a connected listener.
type ClientInterface interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub fans ledger events out to the clients of each workspace. Every
// mutation to accounts, transactions, cards or goals ends up here as an
// Event scoped to one workspace; clients of other workspaces never see it.
// Safe for concurrent use.
type Hub struct {
	// feeds maps a workspace ID to its connected clients, keyed by client ID.
	feeds map[int32]map[string]ClientInterface
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		feeds: make(map[int32]map[string]ClientInterface),
	}
}

// Register attaches a client to its workspace feed.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	if h.feeds[workspaceID] == nil {
		h.feeds[workspaceID] = make(map[string]ClientInterface)
	}
	h.feeds[workspaceID][client.ID()] = client

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("Client joined workspace feed")
}

// Unregister detaches a client; the last client to leave drops the feed.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	clients, ok := h.feeds[workspaceID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.feeds, workspaceID)
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("Client left workspace feed")
}

// Broadcast delivers one event to every client of the workspace. Delivery is
// asynchronous per client so one stalled connection cannot hold up the rest.
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.feeds[workspaceID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}
	// Snapshot under the read lock; sends happen outside it.
	recipients := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		recipients = append(recipients, client)
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("workspace_id", workspaceID).
					Str("client_id", c.ID()).
					Str("event_type", event.Type).
					Msg("Dropped event for client")
			}
		}(client)
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

// ClientCount returns how many clients are attached to a workspace feed.
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeds[workspaceID])
}

// TotalClientCount returns the number of connected clients across all feeds.
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.feeds {
		total += len(clients)
	}
	return total
}
