package testutil

import (
	"fmt"
	"sync"
)

// RunIDSequence generates "<prefix>-1", "<prefix>-2", ... without limit.
//
// Unlike reconcile.FixedRunIDs it never runs out, so a scenario can repeat
// a run any number of times and still get reproducible ids.
//
// Thread-safety: safe for concurrent use via internal mutex.
type RunIDSequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewRunIDSequence creates a sequence. An empty prefix means "run".
func NewRunIDSequence(prefix string) *RunIDSequence {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDSequence{prefix: prefix}
}

// Generate implements reconcile.RunIDGenerator.
func (s *RunIDSequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Reset restarts the sequence at 1.
func (s *RunIDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
