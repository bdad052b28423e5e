package entity

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idMu      sync.Mutex
	idEntropy = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // G404: ids are not secrets, only unique
)

// NewID returns a generated, lexicographically sortable id for entities that
// don't carry a platform id (notices, notifications, actions, highlights).
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}
