package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevisionSequence_StartsAtZero(t *testing.T) {
	seq := NewRevisionSequence("snap")
	assert.Equal(t, int64(0), seq.Current())
}

func TestRevisionSequence_GeneratesInOrder(t *testing.T) {
	seq := NewRevisionSequence("snap")

	assert.Equal(t, "snap-0001", seq.Generate())
	assert.Equal(t, "snap-0002", seq.Generate())
	assert.Equal(t, "snap-0003", seq.Generate())
	assert.Equal(t, int64(3), seq.Current())
}

func TestRevisionSequence_DefaultPrefix(t *testing.T) {
	seq := NewRevisionSequence("")
	assert.Equal(t, "rev-0001", seq.Generate())
}

func TestRevisionSequence_Reset(t *testing.T) {
	seq := NewRevisionSequence("snap")
	seq.Generate()
	seq.Generate()

	seq.Reset()

	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, "snap-0001", seq.Generate())
}

func TestRevisionSequence_ConcurrentUnique(t *testing.T) {
	seq := NewRevisionSequence("c")
	const n = 50

	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- seq.Generate()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for r := range results {
		require.False(t, seen[r], "duplicate revision %s", r)
		seen[r] = true
	}
	assert.Len(t, seen, n)
}

func TestFixedRevision(t *testing.T) {
	gen := NewFixedRevision("rev-fixed")
	assert.Equal(t, "rev-fixed", gen.Generate())
	assert.Equal(t, "rev-fixed", gen.Generate())
}

func TestFixedRevision_Default(t *testing.T) {
	gen := NewFixedRevision("")
	assert.Equal(t, "test-revision", gen.Generate())
}
