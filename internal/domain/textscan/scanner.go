// Package textscan runs rune-level keyword scans over a shared automaton.
// A Scanner borrows a machine; every Scan uses its own cursor, so any number
// of scans may run concurrently against the same machine.
package textscan

import (
	"unicode"

	"github.com/corey/acm/internal/domain/automaton"
)

// Match reports one keyword occurrence in a scanned text.
type Match struct {
	Keyword string
	Rank    int
	Value   any
	End     int // rune offset just past the last matched symbol
}

// Scanner scans texts against a rune machine. With fold enabled, text runes
// are lowercased before feeding; keywords are expected to be registered in
// lowercase.
type Scanner struct {
	machine *automaton.Machine[rune]
	fold    bool
}

// New returns a scanner over the given machine.
func New(m *automaton.Machine[rune], fold bool) *Scanner {
	return &Scanner{machine: m, fold: fold}
}

// Scan feeds text through a fresh cursor and calls fn for every match, in
// end-position order (ties ordered deepest keyword first, along the fail
// chain). fn may be nil to only count. Returns the total number of matches.
func (s *Scanner) Scan(text string, fn func(Match)) int {
	cur := s.machine.Reset()
	total := 0
	pos := 0
	var buf []rune
	for _, r := range text {
		pos++
		if s.fold {
			r = unicode.ToLower(r)
		}
		n := cur.Feed(r)
		total += n
		if fn == nil {
			continue
		}
		for i := 0; i < n; i++ {
			buf = buf[:0]
			kw, rank, value := cur.AppendMatch(buf, i)
			buf = kw
			fn(Match{Keyword: string(kw), Rank: rank, Value: value, End: pos})
		}
	}
	return total
}

// CountOccurrences scans text once and returns per-keyword totals.
func (s *Scanner) CountOccurrences(text string) map[string]int {
	counts := make(map[string]int)
	s.Scan(text, func(m Match) { counts[m.Keyword]++ })
	return counts
}
