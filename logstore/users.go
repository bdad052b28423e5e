package logstore

import (
	"sync"

	"github.com/onnwee/chat-tender/backend/entity"
)

// UserEntry is a chatter snapshot plus the ids of the messages they authored.
// The id list is an index into the log store, not ownership: ids may refer to
// records the store has since trimmed, and readers must tolerate that.
type UserEntry struct {
	Chatter    entity.ChatterRecord `json:"chatter"`
	MessageIDs []string             `json:"message_ids"`

	seen map[string]struct{}
}

// Users aggregates serialized chatters by id, keeping first-seen order.
type Users struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*UserEntry
}

// NewUsers returns an empty index.
func NewUsers() *Users {
	return &Users{byID: make(map[string]*UserEntry)}
}

// Record upserts the chatter snapshot (latest state wins) and appends the
// message id to their history. A re-delivered id is not appended again, so
// the history stays aligned with the store's overwrite-in-place policy.
func (u *Users) Record(ch entity.ChatterRecord, messageID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	e, ok := u.byID[ch.ID]
	if !ok {
		e = &UserEntry{seen: make(map[string]struct{})}
		u.byID[ch.ID] = e
		u.order = append(u.order, ch.ID)
	}
	e.Chatter = ch
	if _, dup := e.seen[messageID]; dup {
		return
	}
	e.seen[messageID] = struct{}{}
	e.MessageIDs = append(e.MessageIDs, messageID)
}

// Get returns a copy of the entry for the chatter id.
func (u *Users) Get(id string) (UserEntry, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	e, ok := u.byID[id]
	if !ok {
		return UserEntry{}, false
	}
	return UserEntry{
		Chatter:    e.Chatter,
		MessageIDs: append([]string(nil), e.MessageIDs...),
	}, true
}

// All returns copies of every entry in first-seen order.
func (u *Users) All() []UserEntry {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]UserEntry, 0, len(u.order))
	for _, id := range u.order {
		e := u.byID[id]
		out = append(out, UserEntry{
			Chatter:    e.Chatter,
			MessageIDs: append([]string(nil), e.MessageIDs...),
		})
	}
	return out
}

// Len returns the number of known chatters.
func (u *Users) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.order)
}
