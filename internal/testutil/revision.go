package testutil

import (
	"fmt"
	"sync"
)

// RevisionSequence generates predictable snapshot revisions for tests.
//
// Revisions are "<prefix>-0001", "<prefix>-0002", ... so golden traces and
// assertions do not depend on wall time.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RevisionSequence struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewRevisionSequence creates a sequence starting at 0.
//
// The first call to Generate() returns "<prefix>-0001". An empty prefix
// becomes "rev".
func NewRevisionSequence(prefix string) *RevisionSequence {
	if prefix == "" {
		prefix = "rev"
	}
	return &RevisionSequence{prefix: prefix}
}

// Generate increments the sequence and returns the next revision.
//
// Implements store.RevisionGenerator.
func (g *RevisionSequence) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Current returns how many revisions have been generated.
func (g *RevisionSequence) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. After Reset(), the next revision is
// "<prefix>-0001" again.
func (g *RevisionSequence) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedRevision returns the same revision every time.
//
// Thread-safety: FixedRevision is stateless and safe for concurrent use.
type FixedRevision struct {
	revision string
}

// NewFixedRevision creates a generator that always returns revision.
// If revision is empty, Generate() returns "test-revision".
func NewFixedRevision(revision string) *FixedRevision {
	if revision == "" {
		revision = "test-revision"
	}
	return &FixedRevision{revision: revision}
}

// Generate returns the fixed revision.
func (g *FixedRevision) Generate() string {
	return g.revision
}
