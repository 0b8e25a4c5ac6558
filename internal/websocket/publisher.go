package websocket

// EventPublisher is what the services see of the hub: a fire-and-forget
// sink for workspace-scoped ledger events. Services that were never given
// a publisher simply skip the call.
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts the event to the workspace feed.
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
}
