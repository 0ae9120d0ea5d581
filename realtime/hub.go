package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event types pushed to connected clients. The payload mirrors the JSON
// shape of the entity the event is about; clients apply them as targeted
// cache upserts/removals, or refetch on a refresh signal.
const (
	EventMemberUpdated     = "MEMBER_UPDATED"
	EventMemberRemoved     = "MEMBER_REMOVED"
	EventMatchRecorded     = "MATCH_RECORDED"
	EventMatchUpdated      = "MATCH_UPDATED"
	EventMatchRemoved      = "MATCH_REMOVED"
	EventRosterRefreshed   = "ROSTER_REFRESHED"
	EventTournamentCreated = "TOURNAMENT_CREATED"
)

// ClubRoom is the room every roster and match event goes to. Tournament
// events additionally go to a room per tournament.
const ClubRoom = "club"

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Hub fans entity events out to websocket clients grouped into rooms.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes register/unregister requests. Must run in its own
// goroutine for the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("websocket client registered",
				slog.String("client_id", client.ID),
				slog.String("room", client.Room),
				slog.Int("room_size", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, registered := clients[client]; registered {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Info("websocket client unregistered",
						slog.String("client_id", client.ID),
						slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends one event to every client in the room. Clients
// whose send buffer is full are skipped; a slow consumer never blocks
// the mutation path.
func (h *Hub) BroadcastToRoom(roomID, eventType string, payload interface{}) {
	msg, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: roomID})
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			slog.String("type", eventType), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		client.trySend(msg)
	}
}

// BroadcastClub is shorthand for the shared club room.
func (h *Hub) BroadcastClub(eventType string, payload interface{}) {
	h.BroadcastToRoom(ClubRoom, eventType, payload)
}
