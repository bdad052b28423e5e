// Package settings holds the user-defined chat actions and highlight
// patterns, guarded for concurrent access from the HTTP layer and the
// ingestion pipeline. An optional persister mirrors changes to storage.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/onnwee/chat-tender/backend/entity"
)

// Persister mirrors registry changes to durable storage. Implementations
// must tolerate being called for entries they have already seen.
type Persister interface {
	SaveAction(ctx context.Context, a entity.Action) error
	DeleteAction(ctx context.Context, id string) error
	SaveHighlight(ctx context.Context, h entity.Highlight) error
	DeleteHighlight(ctx context.Context, pattern string) error
}

// Registry is the in-memory source of truth for actions and highlights.
type Registry struct {
	mu         sync.RWMutex
	actions    []entity.Action
	highlights []entity.Highlight
	persist    Persister
}

// New returns an empty registry. persist may be nil when the service runs
// without a database.
func New(persist Persister) *Registry {
	return &Registry{persist: persist}
}

// Seed replaces the registry contents without invoking the persister.
// Used when loading previously stored entries at startup.
func (r *Registry) Seed(actions []entity.Action, highlights []entity.Highlight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append([]entity.Action(nil), actions...)
	r.highlights = append([]entity.Highlight(nil), highlights...)
}

// AddAction validates and stores a new action. Validation uses the strict
// (editing) rules since the entry is being created.
func (r *Registry) AddAction(ctx context.Context, typ entity.ActionType, name, text, recipient string) (entity.Action, error) {
	v := entity.ValidateAction(true, typ, text, name, recipient)
	if !v.Valid {
		return entity.Action{}, fmt.Errorf("invalid action: name=%t text=%t recipient=%t", v.Name, v.Text, v.Recipient)
	}

	a := entity.NewAction(typ, name, text, recipient)

	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()

	if r.persist != nil {
		if err := r.persist.SaveAction(ctx, a); err != nil {
			return a, fmt.Errorf("persist action: %w", err)
		}
	}
	return a, nil
}

// RemoveAction deletes the action with the given id. Returns false when the
// id is unknown.
func (r *Registry) RemoveAction(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	found := false
	for i, a := range r.actions {
		if a.ID == id {
			r.actions = append(r.actions[:i], r.actions[i+1:]...)
			found = true
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return false, nil
	}
	if r.persist != nil {
		if err := r.persist.DeleteAction(ctx, id); err != nil {
			return true, fmt.Errorf("delete action: %w", err)
		}
	}
	return true, nil
}

// Actions returns a copy of the stored actions in insertion order.
func (r *Registry) Actions() []entity.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Action(nil), r.actions...)
}

// GetAction returns the action with the given id.
func (r *Registry) GetAction(id string) (entity.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.actions {
		if a.ID == id {
			return a, true
		}
	}
	return entity.Action{}, false
}

// AddHighlight validates pattern against the stored set and appends it.
// Returns false without error when the pattern is invalid or a duplicate.
func (r *Registry) AddHighlight(ctx context.Context, pattern, color string) (entity.Highlight, bool, error) {
	r.mu.Lock()
	if !entity.ValidateHighlight(pattern, r.highlights) {
		r.mu.Unlock()
		return entity.Highlight{}, false, nil
	}
	h := entity.NewHighlight(pattern, color)
	r.highlights = append(r.highlights, h)
	r.mu.Unlock()

	if r.persist != nil {
		if err := r.persist.SaveHighlight(ctx, h); err != nil {
			return h, true, fmt.Errorf("persist highlight: %w", err)
		}
	}
	return h, true, nil
}

// RemoveHighlight deletes the highlight with the given pattern.
func (r *Registry) RemoveHighlight(ctx context.Context, pattern string) (bool, error) {
	lower := strings.ToLower(pattern)

	r.mu.Lock()
	found := false
	for i, existing := range r.highlights {
		if existing.Pattern == lower {
			r.highlights = append(r.highlights[:i], r.highlights[i+1:]...)
			found = true
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return false, nil
	}
	if r.persist != nil {
		if err := r.persist.DeleteHighlight(ctx, lower); err != nil {
			return true, fmt.Errorf("delete highlight: %w", err)
		}
	}
	return true, nil
}

// Highlights returns a copy of the stored highlights. Suitable as the
// highlight source for the notifier.
func (r *Registry) Highlights() []entity.Highlight {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Highlight(nil), r.highlights...)
}
