package websocket

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
)

// Handler upgrades authenticated requests to websocket connections and
// attaches them to the hub. The caller must wrap it in the auth middleware.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok || ac.HouseholdID == 0 {
		http.Error(w, "household membership required", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin app behind the session cookie
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, ac.HouseholdID, ac.UserID)
	h.hub.Register(client)

	h.logger.Debug("websocket connected",
		"user_id", ac.UserID,
		"household_id", ac.HouseholdID,
		"clients", h.hub.ClientCount(ac.HouseholdID))

	go client.WritePump(r.Context())
	client.ReadPump(r.Context())
}
