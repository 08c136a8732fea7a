package handlers

import (
	"log/slog"
	"net/http"

	"github.com/courtside/tournament-service/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the frontend domains once they are
	// finalized.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the caller to the live feed of one tournament:
// GET /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Warn("websocket upgrade failed",
			slog.String("tournament_id", id.String()),
			slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, "tournament_"+id.String())
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
