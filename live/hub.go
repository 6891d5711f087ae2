package live

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Event types pushed to connected clients.
const (
	EventPlayerJoined     = "PLAYER_JOINED"
	EventPlayerLeft       = "PLAYER_LEFT"
	EventGameCancelled    = "GAME_CANCELLED"
	EventTeamApproved     = "TEAM_APPROVED"
	EventStandingsUpdated = "STANDINGS_UPDATED"
)

// RoomLeaderboard is the shared room for league-wide standings events.
const RoomLeaderboard = "leaderboard"

// GameRoom returns the room id for a single pickup game.
func GameRoom(gameID int) string {
	return fmt.Sprintf("game_%d", gameID)
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Hub keeps track of connected clients grouped into rooms and fans events
// out to them. One hub instance serves the whole process.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends an event to every client in the room. A client whose
// send buffer is full is skipped rather than blocking the broadcast.
func (h *Hub) BroadcastToRoom(roomID, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(Message{
		Type:    eventType,
		Payload: payload,
		RoomID:  roomID,
	})
	if err != nil {
		log.Printf("live: error marshalling %s event for room %s: %v", eventType, roomID, err)
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("live: send channel full for a client in room %s, skipping", roomID)
		}
		client.Mu.Unlock()
	}
}
