package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/matchday/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is pinned down.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeGameWs subscribes a client to live events for one pickup game.
func (h *WebSocketHandler) ServeGameWs(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Printf("failed to upgrade connection for game %d: %v", gameID, err)
		return
	}

	h.register(conn, live.GameRoom(gameID))
}

// ServeLeaderboardWs subscribes a client to league-wide standings events.
func (h *WebSocketHandler) ServeLeaderboardWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade leaderboard connection: %v", err)
		return
	}

	h.register(conn, live.RoomLeaderboard)
}

func (h *WebSocketHandler) register(conn *websocket.Conn, room string) {
	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
