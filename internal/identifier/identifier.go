package identifier

import (
	"sync"

	"github.com/google/uuid"
)

// Issuer hands out guest identifiers. Identifiers are opaque to callers.
type Issuer interface {
	Issue() string
}

// UUIDIssuer issues random (version 4) UUIDs. The hyphenated form is safe to
// place in a URL query parameter without escaping.
type UUIDIssuer struct{}

// Issue returns a new identifier. Panics only if the system random source fails.
func (UUIDIssuer) Issue() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// FixedIssuer returns predetermined identifiers in order. Used by tests.
type FixedIssuer struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIssuer creates an issuer that returns ids in order.
func NewFixedIssuer(ids ...string) *FixedIssuer {
	return &FixedIssuer{ids: ids}
}

// Issue returns the next predetermined identifier and panics once they run out.
func (f *FixedIssuer) Issue() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.ids) {
		panic("identifier: fixed issuer exhausted")
	}
	id := f.ids[f.idx]
	f.idx++
	return id
}
