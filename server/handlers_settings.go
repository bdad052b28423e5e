package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/onnwee/chat-tender/backend/entity"
)

type actionPayload struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	Recipient string `json:"recipient"`
}

// HandleActions serves GET /actions (list) and POST /actions (create).
func (h *Handlers) HandleActions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		actions := h.registry.Actions()
		out := make([]entity.ActionRecord, 0, len(actions))
		for _, a := range actions {
			out = append(out, a.Serialize())
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p actionPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		a, err := h.registry.AddAction(r.Context(), entity.ActionType(p.Type), p.Name, p.Text, p.Recipient)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, a.Serialize())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// HandleActionValidate returns the per-field validation result for a
// candidate action without storing anything. ?editing=1 applies the strict
// rules used while a form is open.
func (h *Handlers) HandleActionValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var p actionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	editing := r.URL.Query().Get("editing") == "1"
	v := entity.ValidateAction(editing, entity.ActionType(p.Type), p.Text, p.Name, p.Recipient)
	writeJSON(w, http.StatusOK, v)
}

// HandleActionsDispatcher serves /actions/{id} (DELETE) and
// /actions/{id}/run (POST).
func (h *Handlers) HandleActionsDispatcher(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/actions/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		ok, err := h.registry.RemoveAction(r.Context(), parts[0])
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "action not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "run":
		h.handleActionRun(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// handleActionRun resolves the action's template against the supplied
// replacements and sends the result to chat. Only say actions run server
// side; prepare/open_url are frontend concerns and whisper delivery is not
// supported over IRC anymore.
func (h *Handlers) handleActionRun(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	a, ok := h.registry.GetAction(id)
	if !ok {
		writeError(w, http.StatusNotFound, "action not found")
		return
	}
	if a.Type != entity.ActionSay {
		writeError(w, http.StatusUnprocessableEntity, "only say actions run server side")
		return
	}

	var p struct {
		Replacements map[string]string `json:"replacements"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	text, err := a.Parse(p.Replacements)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if h.chat == nil {
		writeError(w, http.StatusServiceUnavailable, "chat connection not configured")
		return
	}
	if err := h.chat.Say(r.Context(), text); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sent": text})
}

// HandleHighlights serves GET /highlights (list) and POST /highlights (create).
func (h *Handlers) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		hs := h.registry.Highlights()
		out := make([]entity.HighlightRecord, 0, len(hs))
		for _, hl := range hs {
			out = append(out, hl.Serialize())
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p struct {
			Pattern string `json:"pattern"`
			Color   string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		hl, ok, err := h.registry.AddHighlight(r.Context(), p.Pattern, p.Color)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "invalid or duplicate pattern")
			return
		}
		writeJSON(w, http.StatusCreated, hl.Serialize())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// HandleHighlightDelete serves DELETE /highlights/{pattern}.
func (h *Handlers) HandleHighlightDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	pattern := strings.TrimPrefix(r.URL.Path, "/highlights/")
	if pattern == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	ok, err := h.registry.RemoveHighlight(r.Context(), pattern)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "highlight not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
