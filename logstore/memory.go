package logstore

import (
	"sync"

	"github.com/onnwee/chat-tender/backend/entity"
)

// MemoryStore is the in-memory Store: an ordered id slice plus a by-id map.
// A single RWMutex makes each mutation atomic with respect to readers.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.Record
	gen   uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]entity.Record)}
}

// Append inserts or replaces; see Store.Append for the duplicate-id contract.
func (s *MemoryStore) Append(rec entity.Record) bool {
	id := rec.RecordID()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.byID[id]
	if !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = rec
	s.gen++
	return exists
}

// Get returns the record stored under id.
func (s *MemoryStore) Get(id string) (entity.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok
}

// AllInOrder returns a fresh slice of every record in append order.
func (s *MemoryStore) AllInOrder() []entity.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Record, 0, len(s.order))
	for _, id := range s.order {
		if rec, ok := s.byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// TrimOldest removes up to n records from the front of the ordered list.
func (s *MemoryStore) TrimOldest(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.order) {
		n = len(s.order)
	}
	for _, id := range s.order[:n] {
		delete(s.byID, id)
	}
	s.order = append([]string(nil), s.order[n:]...)
	if n > 0 {
		s.gen++
	}
	return n
}

// MarkPurged replaces the chatter's message records with purged copies.
func (s *MemoryStore) MarkPurged(chatterID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, rec := range s.byID {
		msg, ok := rec.(entity.MessageRecord)
		if !ok || msg.User.ID != chatterID || msg.Purged {
			continue
		}
		s.byID[id] = msg.WithPurged()
		count++
	}
	if count > 0 {
		s.gen++
	}
	return count
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Generation returns the mutation counter.
func (s *MemoryStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

var _ Store = (*MemoryStore)(nil)
