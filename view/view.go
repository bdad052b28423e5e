// Package view derives display-ready sequences from the log store: pure,
// memoized selectors. Results are cached per store generation so an unchanged
// store yields the identical slice and downstream virtualized rendering can
// skip work on pointer equality.
package view

import (
	"sync"

	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/logstore"
)

// Views composes a Store with the Users index. All methods are read-only.
type Views struct {
	store logstore.Store
	users *logstore.Users

	mu       sync.Mutex
	gen      uint64
	primed   bool
	records  []entity.Record
	messages []entity.MessageRecord
	purged   []entity.MessageRecord
}

// New returns selectors over the given store and chatter index.
func New(store logstore.Store, users *logstore.Users) *Views {
	return &Views{store: store, users: users}
}

// refresh rebuilds the cached derivations when the store has mutated.
func (v *Views) refresh() {
	gen := v.store.Generation()
	if v.primed && gen == v.gen {
		return
	}
	records := v.store.AllInOrder()
	messages := make([]entity.MessageRecord, 0, len(records))
	var purged []entity.MessageRecord
	for _, rec := range records {
		switch r := rec.(type) {
		case entity.MessageRecord:
			messages = append(messages, r)
			if r.Purged {
				purged = append(purged, r)
			}
		case entity.NoticeRecord, entity.NotificationRecord:
			// log-only kinds, no per-message derivation
		}
	}
	v.gen = gen
	v.primed = true
	v.records = records
	v.messages = messages
	v.purged = purged
}

// Records returns every log entry in append order.
func (v *Views) Records() []entity.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.records
}

// Messages returns the message records in append order.
func (v *Views) Messages() []entity.MessageRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.messages
}

// Purged returns the message records flagged by moderation, in append order.
func (v *Views) Purged() []entity.MessageRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.purged
}

// ChatterLogs returns the messages authored by the chatter, in append order.
// Unknown chatters and ids the store has since trimmed yield an empty result,
// never an error.
func (v *Views) ChatterLogs(chatterID string) []entity.MessageRecord {
	entry, ok := v.users.Get(chatterID)
	if !ok {
		return []entity.MessageRecord{}
	}
	out := make([]entity.MessageRecord, 0, len(entry.MessageIDs))
	for _, id := range entry.MessageIDs {
		rec, ok := v.store.Get(id)
		if !ok {
			continue
		}
		if msg, ok := rec.(entity.MessageRecord); ok {
			out = append(out, msg)
		}
	}
	return out
}
