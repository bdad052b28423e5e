package server

import (
	"net/http"
	"strings"

	"github.com/onnwee/chat-tender/backend/entity"
)

// HandleMessages returns the ordered record log. ?limit=N returns only the
// newest N entries; ?kind=message narrows to chat messages (purged included,
// flagged). The slices come from the memoized views, so repeated polls of an
// unchanged log do no rebuild work.
func (h *Handlers) HandleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseIntQuery(r, "limit", 0)

	switch r.URL.Query().Get("kind") {
	case "", "all":
		recs := h.views.Records()
		if limit > 0 && limit < len(recs) {
			recs = recs[len(recs)-limit:]
		}
		writeJSON(w, http.StatusOK, recs)
	case "message":
		msgs := h.views.Messages()
		if limit > 0 && limit < len(msgs) {
			msgs = msgs[len(msgs)-limit:]
		}
		writeJSON(w, http.StatusOK, msgs)
	case "purged":
		writeJSON(w, http.StatusOK, h.views.Purged())
	default:
		writeError(w, http.StatusBadRequest, "unknown kind")
	}
}

// HandleChatters lists the chatters seen this session, in first-seen order.
func (h *Handlers) HandleChatters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries := h.users.All()
	type chatterSummary struct {
		Chatter  entity.ChatterRecord `json:"chatter"`
		Messages int                  `json:"messages"`
	}
	out := make([]chatterSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, chatterSummary{Chatter: e.Chatter, Messages: len(e.MessageIDs)})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleChatterLogs serves /chatters/{id}/logs: the chatter's messages still
// present in the session log. An unknown or fully trimmed chatter yields an
// empty list, never an error.
func (h *Handlers) HandleChatterLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/chatters/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "logs" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, h.views.ChatterLogs(parts[0]))
}

// HandleRoom returns the latest room state snapshot.
func (h *Handlers) HandleRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.chat == nil {
		writeError(w, http.StatusNotFound, "room state unknown")
		return
	}
	rs, ok := h.chat.RoomState()
	if !ok {
		writeError(w, http.StatusNotFound, "room state unknown")
		return
	}
	writeJSON(w, http.StatusOK, rs)
}
