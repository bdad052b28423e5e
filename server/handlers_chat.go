package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/onnwee/chat-tender/backend/telemetry"
)

// HandleSend posts a message to the channel as the authenticated bot user.
func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.chat == nil {
		writeError(w, http.StatusServiceUnavailable, "chat connection not configured")
		return
	}
	var p struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.chat.Say(r.Context(), p.Text); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// HandleEvents streams appended records as Server-Sent Events. Each event is
// one JSON record; a comment line is written every 30s as a keepalive.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := h.hub.Subscribe()
	defer cancel()
	telemetry.SetSubscribers(h.hub.Subscribers())
	defer func() { telemetry.SetSubscribers(h.hub.Subscribers()) }()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ctx := r.Context()
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case rec, open := <-ch:
			if !open {
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if err := enc.Encode(rec); err != nil {
				slog.Warn("failed to encode SSE record", slog.Any("err", err))
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS streams appended records over a WebSocket connection as JSON
// frames. The read side is drained only to detect the peer closing.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	ch, cancel := h.hub.Subscribe()
	defer cancel()
	telemetry.SetSubscribers(h.hub.Subscribers())
	defer func() { telemetry.SetSubscribers(h.hub.Subscribers()) }()

	// Reader goroutine: surface peer close/cancel as channel close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case rec, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(rec); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Warn("ws write failed", slog.Any("err", err))
				}
				return
			}
		}
	}
}
