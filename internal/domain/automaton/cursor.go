package automaton

import "fmt"

// Cursor is a position in the automaton during a scan. It is a small value
// type borrowing from its machine; the machine must outlive it. Any number
// of cursors may scan one machine concurrently, but no cursor may be used
// while the machine is being mutated.
type Cursor[S any] struct {
	machine *Machine[S]
	state   *state[S]
}

// Reset returns a cursor positioned at the root. O(1).
func (m *Machine[S]) Reset() Cursor[S] {
	return Cursor[S]{machine: m, state: m.root}
}

// Feed advances the cursor by one symbol and returns the number of keywords
// matching as suffixes of the symbols fed so far. The first Feed after a
// mutation briefly blocks while the failure layer is rebuilt; subsequent
// feeds are lock-free.
func (c *Cursor[S]) Feed(sym S) int {
	m := c.machine
	m.ensureClean()
	c.state = m.step(c.state, sym)
	return c.state.outputs
}

// Match returns the rank and associated value of the index-th keyword
// matching at the current position. index must be less than the count
// returned by the last Feed; violating that panics.
func (c *Cursor[S]) Match(index int) (rank int, value any) {
	st := c.matchState(index)
	return st.rank, st.value
}

// AppendMatch appends the index-th matching keyword to buf and returns the
// extended buffer along with the keyword's rank and value. The keyword is
// reconstructed by walking parent back-links from its terminal state, so no
// per-state keyword copies are ever stored. Appended symbols are borrowed
// from the machine's edges; they stay valid until the keyword is removed or
// the machine released.
func (c *Cursor[S]) AppendMatch(buf []S, index int) (keyword []S, rank int, value any) {
	st := c.matchState(index)

	n := 0
	for s := st; s.parent != nil; s = s.parent {
		n++
	}
	start := len(buf)
	buf = append(buf, make([]S, n)...)
	i := 0
	for s := st; s.parent != nil; s = s.parent {
		buf[start+n-1-i] = s.parent.edges[s.edgeIdx].sym
		i++
	}
	return buf, st.rank, st.value
}

// matchState walks the fail chain from the cursor's state, skipping
// non-terminal states, and returns the index-th terminal one.
func (c *Cursor[S]) matchState(index int) *state[S] {
	st := c.state
	if index < 0 || index >= st.outputs {
		panic(fmt.Sprintf("automaton: match index %d out of range (%d matches)", index, st.outputs))
	}
	for i := 0; ; i++ {
		for !st.terminal && st.fail != nil {
			st = st.fail
		}
		if i == index {
			return st
		}
		st = st.fail
	}
}
