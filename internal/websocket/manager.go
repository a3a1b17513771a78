package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// EventType represents the type of library event pushed to clients
type EventType string

const (
	ResourceCreated EventType = "resource_created"
	ResourceMoved   EventType = "resource_moved"
	ResourcePinned  EventType = "resource_pinned"
	ResourceDeleted EventType = "resource_deleted"
	BulkCompleted   EventType = "bulk_completed"
	UploadComplete  EventType = "upload_complete"
)

// Event is a library change notification pushed over WebSocket so other
// sessions of the same user can refresh their view.
type Event struct {
	Type       EventType              `json:"type"`
	UserID     uint                   `json:"user_id"`
	ResourceID string                 `json:"resource_id,omitempty"`
	ParentID   *string                `json:"parent_id,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	UserID uint
	Conn   *websocket.Conn
}

// Hub tracks WebSocket connections per user and fans events out to them
type Hub struct {
	clients    map[uint][]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
}

var (
	instance *Hub
	once     sync.Once
)

// GetHub returns the singleton event hub
func GetHub() *Hub {
	once.Do(func() {
		instance = &Hub{
			clients:    make(map[uint][]*Client),
			register:   make(chan *Client),
			unregister: make(chan *Client),
		}
		go instance.run()
	})
	return instance
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RegisterClient registers a new WebSocket client
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a WebSocket client
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// Publish sends an event to every connection of the given user.
func (h *Hub) Publish(userID uint, event *Event) error {
	h.mu.RLock()
	clients, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return nil // no sessions connected
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for _, client := range clients {
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Keep sending to the remaining connections.
			continue
		}
	}

	return nil
}

// PublishResourceChange is a convenience wrapper for single-resource events.
func (h *Hub) PublishResourceChange(userID uint, typ EventType, resourceID string, parentID *string) {
	h.Publish(userID, &Event{
		Type:       typ,
		UserID:     userID,
		ResourceID: resourceID,
		ParentID:   parentID,
	})
}

// PublishBulk announces a completed bulk action over a set of resources.
func (h *Hub) PublishBulk(userID uint, action string, ids []string) {
	h.Publish(userID, &Event{
		Type:    BulkCompleted,
		UserID:  userID,
		Message: action,
		Data:    map[string]interface{}{"ids": ids},
	})
}
