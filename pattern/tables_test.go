package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bruteForceSorted(v, n int) bool {
	bits := make([]int, n)
	for i := 0; i < n; i++ {
		bits[i] = (v >> uint(i)) & 1
	}
	for i := 0; i < n-1; i++ {
		if bits[i] == 0 && bits[i+1] == 1 {
			return false
		}
	}
	return true
}

// TestIsSortedExhaustive checks every pattern for n in [2,12] against a
// straightforward reimplementation of the sortedness predicate.
func TestIsSortedExhaustive(t *testing.T) {
	for n := 2; n <= 12; n++ {
		tabs := Build(n, false)
		for p := 0; p < tabs.NumPatterns(); p++ {
			want := bruteForceSorted(p, n)
			assert.Equalf(t, want, tabs.IsSorted(Pattern(p)), "n=%d p=%d", n, p)
		}
	}
}

// TestAllowedOpsChangePattern verifies every comparator listed for a
// pattern actually swaps a 0 at i with a 1 at j, and that no omitted
// comparator would have.
func TestAllowedOpsChangePattern(t *testing.T) {
	n := 6
	tabs := Build(n, false)
	for p := 0; p < tabs.NumPatterns(); p++ {
		listed := map[Comparator]bool{}
		for _, op := range tabs.AllowedOps(Pattern(p)) {
			listed[op] = true
		}
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				changes := (p>>uint(i))&1 == 0 && (p>>uint(j))&1 == 1
				assert.Equalf(t, changes, listed[Comparator{uint8(i), uint8(j)}], "p=%d i=%d j=%d", p, i, j)
			}
		}
	}
}

func TestZobristDeterministicAcrossBuilds(t *testing.T) {
	a := Build(6, true)
	b := Build(6, true)
	require.True(t, a.HasZobrist())
	for p := 0; p < a.NumPatterns(); p++ {
		assert.Equal(t, a.ZobristOf(Pattern(p)), b.ZobristOf(Pattern(p)))
	}
}

func TestNoZobristByDefault(t *testing.T) {
	tabs := Build(6, false)
	assert.False(t, tabs.HasZobrist())
}
