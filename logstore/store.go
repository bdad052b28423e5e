// Package logstore holds the append-only, insertion-ordered session log: an
// explicit repository interface with an in-memory implementation, plus the
// per-chatter index. Display order is defined solely by append order; embedded
// timestamps are never consulted.
package logstore

import "github.com/onnwee/chat-tender/backend/entity"

// Store is the log repository. Implementations must make each call atomic:
// readers never observe a partially applied append or trim.
type Store interface {
	// Append inserts a record. When the id is already present the stored
	// record is replaced in place and the ordered id list does not grow;
	// the return value reports such a replacement so callers can observe
	// re-delivery.
	Append(rec entity.Record) (replaced bool)

	// Get returns the record stored under id.
	Get(id string) (entity.Record, bool)

	// AllInOrder returns every record in append order.
	AllInOrder() []entity.Record

	// TrimOldest removes the oldest n records (a contiguous prefix of the
	// ordered id list) and returns how many were removed.
	TrimOldest(n int) int

	// MarkPurged flags every message record authored by the chatter as
	// purged, replacing each with a purged copy. Returns the number of
	// records flagged.
	MarkPurged(chatterID string) int

	// Len returns the number of stored records.
	Len() int

	// Generation increases on every mutation; selectors use it as a
	// memoization key.
	Generation() uint64
}
