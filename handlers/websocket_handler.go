package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-system/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO(origin): restrict to the configured frontend origin once
		// the deployment domain is settled.
		return true
	},
}

type WebSocketHandler struct {
	hub    *realtime.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeClub subscribes the caller to the shared club room, where every
// roster and match event is pushed.
func (h *WebSocketHandler) ServeClub(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, realtime.ClubRoom)
}

// ServeTournament subscribes the caller to one tournament's room.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, fmt.Sprintf("tournament_%d", tournamentID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, room, h.logger)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
