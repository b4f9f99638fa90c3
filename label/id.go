package label

import (
	"sync"

	"github.com/lithammer/shortuuid/v4"
)

// maxTracked bounds the collision set. A batch run issues a few hundred ids;
// a long-running preview server forgets older ids once the set is full.
const maxTracked = 10000

// IDSource hands out short identifiers for generated labels.
type IDSource interface {
	NewID() string
}

// ShortIDs issues base57 short UUIDs. A repeat of any id still tracked
// (astronomically unlikely) is redrawn; the set is reset after maxTracked ids. Across runs no
// guarantee is made, the output directory is recreated every run.
type ShortIDs struct {
	mu     sync.Mutex
	issued map[string]struct{}
	limit  int
	gen    func() string
}

// NewShortIDs returns a shortuuid-backed IDSource.
func NewShortIDs() *ShortIDs {
	return &ShortIDs{
		issued: make(map[string]struct{}),
		limit:  maxTracked,
		gen:    shortuuid.New,
	}
}

// NewID returns an identifier not among the recently issued ones.
func (s *ShortIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := s.gen()
		if _, dup := s.issued[id]; dup {
			continue
		}
		if len(s.issued) >= s.limit {
			clear(s.issued)
		}
		s.issued[id] = struct{}{}
		return id
	}
}

// Tracked reports how many ids are currently held for collision checks.
func (s *ShortIDs) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issued)
}
