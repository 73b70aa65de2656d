package automaton

// step advances from s by one symbol: take a matching goto edge if one
// exists, otherwise walk the fail chain. The root absorbs symbols with no
// transition — the paper's universal self-loop on state 0 is simulated here
// rather than materialized, since the alphabet is unbounded. The walk is
// pure; it never mutates the machine.
func (m *Machine[S]) step(s *state[S], sym S) *state[S] {
	for {
		if next := s.child(m.ops.Eq, sym); next != nil {
			return next
		}
		if s.fail == nil {
			// Only the root has no fail link once the layer is built.
			return s
		}
		s = s.fail
	}
}

// resetOutputs restores every state's output count to its own contribution,
// discarding fail-chain sums from the previous build.
func resetOutputs[S any](st *state[S]) {
	if st.terminal {
		st.outputs = 1
	} else {
		st.outputs = 0
	}
	for i := range st.edges {
		resetOutputs(st.edges[i].child)
	}
}

// rebuild recomputes failure links and output counts breadth-first from the
// root. Caller holds m.mu.
func (m *Machine[S]) rebuild() {
	if m.flag.Load() == reconstructOutput {
		resetOutputs(m.root)
	}

	m.root.fail = nil
	queue := make([]*state[S], 0, m.size-1)
	for i := range m.root.edges {
		child := m.root.edges[i].child
		child.fail = m.root
		queue = append(queue, child)
	}

	for head := 0; head < len(queue); head++ {
		r := queue[head]
		for i := range r.edges {
			s := r.edges[i].child
			s.fail = m.step(r.fail, r.edges[i].sym)
			s.outputs += s.fail.outputs
			queue = append(queue, s)
		}
	}

	m.flag.Store(reconstructClean)
}

// ensureClean runs the lazy rebuild with a double-checked acquire. Feeds
// after the first one following a mutation share the rebuilt layer without
// touching the lock.
func (m *Machine[S]) ensureClean() {
	if m.flag.Load() == reconstructClean {
		return
	}
	m.mu.Lock()
	if m.flag.Load() != reconstructClean {
		m.rebuild()
	}
	m.mu.Unlock()
}
