package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-chatspace-gateway/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Push event types delivered to connected workspace views.
const (
	EventReplyFinalized = "reply_finalized"
	EventSessionMutated = "session_mutated"
)

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers an event to every device of one user, locally and through
// Redis for devices connected to other instances.
func (h *Hub) Send(userID uuid.UUID, event string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": event,
		"data": payload,
	})

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// Unregister owns the channel close.
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
				h.unregister <- client
			}
		}
	}

	// Always publish for multi-device support across instances.
	if h.rdb != nil {
		envelope := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(envelope)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Broadcast delivers an event to ALL connected clients.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": event,
		"data": payload,
	})

	h.mu.RLock()
	var targets []*Client
	for _, clients := range h.clients {
		targets = append(targets, clients...)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		default:
			h.unregister <- client
		}
	}

	if h.rdb != nil {
		envelope := map[string]interface{}{
			"target_user_id": "*", // Wildcard for broadcast
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(envelope)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// subscribeToRedis receives {target_user_id, message} envelopes published by
// other instances and forwards them to locally connected devices.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var envelope struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if envelope.TargetUserID == "*" {
			h.mu.RLock()
			var targets []*Client
			for _, clients := range h.clients {
				targets = append(targets, clients...)
			}
			h.mu.RUnlock()

			for _, client := range targets {
				select {
				case client.Send <- envelope.Message:
				default:
					h.unregister <- client
				}
			}
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- envelope.Message:
				default:
					h.unregister <- client
				}
			}
		}
	}
}
