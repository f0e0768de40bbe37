package pattern

import "math/rand"

const endOfList = -1

// node is one slot of the intrusive linked list, indexed by the pattern
// value it held when Reset first published it: the slot index is the
// splicing key and never changes, while current holds the possibly
// rewritten live value.
type node struct {
	inList  bool
	current Pattern
	next    int
}

// State is the knowledge-state of a partial operation sequence: which
// binary input patterns remain unsorted, tracked as an intrusive
// singly-linked list over a flat array indexed by pattern value.
type State struct {
	tables *Tables

	nodes       []node
	firstUsed   int
	numUnsorted int

	ops   []Comparator
	level int

	lengthUpperBound int

	// Fingerprint is an incremental Zobrist XOR of all live patterns,
	// maintained only when tables.HasZobrist(); a cheap, non-canonical
	// alternative to canon.Hash for literal-sequence duplicate checks.
	Fingerprint uint64
}

// NewState allocates a reusable State for the given tables and capacity
// bound (typically config.LengthUpperBound). The returned State is
// already Reset and ready for use.
func NewState(tables *Tables, lengthUpperBound int) *State {
	s := &State{
		tables:           tables,
		nodes:            make([]node, tables.NumPatterns()),
		ops:              make([]Comparator, 0, lengthUpperBound),
		lengthUpperBound: lengthUpperBound,
	}
	s.Reset()
	return s
}

// Reset restores the initial state: every non-sorted pattern is live,
// the operation sequence is empty.
func (s *State) Reset() {
	s.firstUsed = endOfList
	s.numUnsorted = 0
	s.Fingerprint = 0
	t := s.tables
	for p := 0; p < t.NumPatterns(); p++ {
		if t.IsSorted(Pattern(p)) {
			s.nodes[p].inList = false
			continue
		}
		s.nodes[p] = node{inList: true, current: Pattern(p), next: s.firstUsed}
		s.firstUsed = p
		s.numUnsorted++
		if t.HasZobrist() {
			s.Fingerprint ^= t.ZobristOf(Pattern(p))
		}
	}
	s.ops = s.ops[:0]
	s.level = 0
}

// Replay resets the state and applies ops in order. Used to reconstruct
// a beam entry's state from its recorded operation sequence.
func (s *State) Replay(ops []Comparator) {
	s.Reset()
	for _, op := range ops {
		s.Apply(int(op.I), int(op.J))
	}
}

// NumUnsorted returns the count of patterns still requiring sorting.
func (s *State) NumUnsorted() int { return s.numUnsorted }

// Level returns the number of comparators applied so far.
func (s *State) Level() int { return s.level }

// Ops returns the operation sequence applied so far. The returned slice
// is owned by State and is invalidated by the next Reset/Replay.
func (s *State) Ops() []Comparator { return s.ops }

// Apply applies comparator (i, j) to every live pattern, moving or
// removing list nodes as patterns become sorted or collide. Panics with
// *CapacityError if the resulting level exceeds the configured bound,
// which indicates a misconfigured capacity, never a search outcome.
func (s *State) Apply(i, j int) {
	t := s.tables
	last := endOfList
	for idx := s.firstUsed; idx != endOfList; {
		next := s.nodes[idx].next
		v := s.nodes[idx].current

		if (v>>uint(i))&1 == 0 && (v>>uint(j))&1 == 1 {
			// Publish removal of the source value before any possible
			// re-publication at v', so the traversal is stable against
			// in-place mutation of this same slot.
			s.nodes[v].inList = false
			if t.HasZobrist() {
				s.Fingerprint ^= t.ZobristOf(v)
			}

			v2 := (v | (1 << uint(i))) &^ (1 << uint(j))

			if s.nodes[v2].inList || t.IsSorted(v2) {
				s.numUnsorted--
				if last != endOfList {
					s.nodes[last].next = next
				} else {
					s.firstUsed = next
				}
			} else {
				s.nodes[v2].inList = true
				s.nodes[idx].current = v2
				if t.HasZobrist() {
					s.Fingerprint ^= t.ZobristOf(v2)
				}
				if last != endOfList {
					s.nodes[last].next = idx
				} else {
					s.firstUsed = idx
				}
				last = idx
			}
		} else {
			last = idx
		}
		idx = next
	}

	s.ops = append(s.ops, Comparator{uint8(i), uint8(j)})
	s.level++
	if s.level > s.lengthUpperBound {
		panic(&CapacityError{Level: s.level, Bound: s.lengthUpperBound})
	}
}

// RandomRolloutStep picks a uniformly random live pattern, then a
// uniformly random allowed comparator for it, and applies it. Picking
// the pattern first (rather than the comparator directly) weights
// comparators by how many live patterns they touch.
func (s *State) RandomRolloutStep(rng *rand.Rand) {
	r := rng.Intn(s.numUnsorted)
	idx := s.firstUsed
	for n := 0; n < r; n++ {
		idx = s.nodes[idx].next
	}
	v := s.nodes[idx].current

	allowed := s.tables.AllowedOps(v)
	op := allowed[rng.Intn(len(allowed))]
	s.Apply(int(op.I), int(op.J))
}

// Mask is a reusable n x n successor-comparator buffer: Mask.Get(i,j) is
// true iff some live pattern has bit i clear and bit j set, i.e. (i,j)
// is a valid successor comparator.
type Mask struct {
	n    int
	live []bool
}

// NewMask allocates a Mask for an n-wire network.
func NewMask(n int) *Mask {
	return &Mask{n: n, live: make([]bool, n*n)}
}

func (m *Mask) idx(i, j int) int { return i*m.n + j }

// Get reports whether (i, j) is a live successor comparator.
func (m *Mask) Get(i, j int) bool { return m.live[m.idx(i, j)] }

func (m *Mask) set(i, j int) { m.live[m.idx(i, j)] = true }

func (m *Mask) clear() {
	for i := range m.live {
		m.live[i] = false
	}
}

// Each calls fn(i, j) for every set cell, i < j.
func (m *Mask) Each(fn func(i, j int)) {
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if m.Get(i, j) {
				fn(i, j)
			}
		}
	}
}

// SuccessorMask computes, into m, every comparator that would change at
// least one live pattern, and returns the count of such comparators. A
// count of zero means the state is terminal: every pattern is sorted.
func (s *State) SuccessorMask(m *Mask) int {
	m.clear()
	n := s.tables.n
	for idx := s.firstUsed; idx != endOfList; idx = s.nodes[idx].next {
		v := s.nodes[idx].current
		for i := 0; i < n-1; i++ {
			if (v>>uint(i))&1 != 0 {
				continue
			}
			for j := i + 1; j < n; j++ {
				if (v>>uint(j))&1 == 1 {
					m.set(i, j)
				}
			}
		}
	}
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.Get(i, j) {
				count++
			}
		}
	}
	return count
}

// Copy returns a value-copy of s: an independent backing node array,
// scalars, and operation sequence.
func (s *State) Copy() *State {
	o := &State{
		tables:           s.tables,
		nodes:            make([]node, len(s.nodes)),
		firstUsed:        s.firstUsed,
		numUnsorted:      s.numUnsorted,
		ops:              make([]Comparator, len(s.ops), cap(s.ops)),
		level:            s.level,
		lengthUpperBound: s.lengthUpperBound,
		Fingerprint:      s.Fingerprint,
	}
	copy(o.nodes, s.nodes)
	copy(o.ops, s.ops)
	return o
}

// CopyInto copies s's contents into dst, reusing dst's backing arrays
// where capacity allows. Used by the scorer to avoid allocating a fresh
// State per rollout sample.
func (s *State) CopyInto(dst *State) {
	if cap(dst.nodes) < len(s.nodes) {
		dst.nodes = make([]node, len(s.nodes))
	} else {
		dst.nodes = dst.nodes[:len(s.nodes)]
	}
	copy(dst.nodes, s.nodes)
	dst.tables = s.tables
	dst.firstUsed = s.firstUsed
	dst.numUnsorted = s.numUnsorted
	if cap(dst.ops) < len(s.ops) {
		dst.ops = make([]Comparator, len(s.ops), cap(s.ops))
	} else {
		dst.ops = dst.ops[:len(s.ops)]
	}
	copy(dst.ops, s.ops)
	dst.level = s.level
	dst.lengthUpperBound = s.lengthUpperBound
	dst.Fingerprint = s.Fingerprint
}
