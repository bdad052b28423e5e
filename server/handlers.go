package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/onnwee/chat-tender/backend/config"
	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/logstore"
	"github.com/onnwee/chat-tender/backend/settings"
	"github.com/onnwee/chat-tender/backend/stream"
	"github.com/onnwee/chat-tender/backend/view"
)

// ChatService is the slice of the ingestion service the HTTP layer uses.
type ChatService interface {
	Say(ctx context.Context, text string) error
	RoomState() (entity.RoomStateRecord, bool)
	Connected() bool
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	cfg      *config.Config
	views    *view.Views
	users    *logstore.Users
	hub      *stream.Hub
	chat     ChatService
	registry *settings.Registry
	db       *sql.DB
}

// NewHandlers wires handler dependencies. chat may be nil before the IRC
// connection is configured; db may be nil when archiving is disabled.
func NewHandlers(cfg *config.Config, views *view.Views, users *logstore.Users, hub *stream.Hub, chat ChatService, registry *settings.Registry, db *sql.DB) *Handlers {
	return &Handlers{
		cfg:      cfg,
		views:    views,
		users:    users,
		hub:      hub,
		chat:     chat,
		registry: registry,
		db:       db,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIntQuery extracts an int parameter from query string with a default value.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
