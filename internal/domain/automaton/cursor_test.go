package automaton

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedAll feeds every rune of text and returns the per-position match counts.
func feedAll(cur *Cursor[rune], text string) []int {
	var counts []int
	for _, r := range text {
		counts = append(counts, cur.Feed(r))
	}
	return counts
}

// matchesAt returns the keywords and ranks reported at the current position.
func matchesAt(cur *Cursor[rune], n int) (kws []string, ranks []int) {
	var buf []rune
	for i := 0; i < n; i++ {
		buf = buf[:0]
		kw, rank, _ := cur.AppendMatch(buf, i)
		kws = append(kws, string(kw))
		ranks = append(ranks, rank)
	}
	return kws, ranks
}

func TestScan_PaperExample(t *testing.T) {
	// The automaton from the 1975 paper: he, she, his, hers against "ushers".
	// Matching is case-insensitive — keyword letters compare against the
	// lowercased text letter.
	m := NewOps(Ops[rune]{
		Eq: func(kw, text rune) bool { return kw == unicode.ToLower(text) },
	})
	for _, w := range []string{"he", "she", "his", "hers"} {
		require.True(t, m.Register([]rune(w), nil, nil))
	}

	cur := m.Reset()
	counts := feedAll(&cur, "uSHers")
	assert.Equal(t, []int{0, 0, 0, 2, 0, 1}, counts)

	// Rewind: at the 'e' two keywords end, she then he along the fail chain.
	cur = m.Reset()
	for _, r := range "uSHe" {
		cur.Feed(r)
	}
	kws, ranks := matchesAt(&cur, 2)
	assert.Equal(t, []string{"she", "he"}, kws)
	assert.Equal(t, []int{1, 0}, ranks)

	// At the final 's' only hers matches.
	for _, r := range "rs" {
		cur.Feed(r)
	}
	kws, ranks = matchesAt(&cur, 1)
	assert.Equal(t, []string{"hers"}, kws)
	assert.Equal(t, []int{3}, ranks)
}

func TestScan_OverlappingSuffixes(t *testing.T) {
	// bcd ends inside abcde; both must be reported at their own end position.
	m := New[rune]()
	require.True(t, m.Register([]rune("abcde"), nil, nil))
	require.True(t, m.Register([]rune("bcd"), nil, nil))

	cur := m.Reset()
	counts := feedAll(&cur, "abcde")
	assert.Equal(t, []int{0, 0, 0, 1, 1}, counts)

	cur = m.Reset()
	for _, r := range "abcd" {
		cur.Feed(r)
	}
	kws, _ := matchesAt(&cur, 1)
	assert.Equal(t, []string{"bcd"}, kws)

	cur.Feed('e')
	kws, _ = matchesAt(&cur, 1)
	assert.Equal(t, []string{"abcde"}, kws)
}

func TestScan_InterleavedRegisterAndFeed(t *testing.T) {
	// Registration between feeds: each mutation is picked up by the next
	// feed through one lazy rebuild, and the cursor keeps its position.
	m := New[rune]()

	require.True(t, m.Register([]rune("a"), nil, nil))
	cur := m.Reset()
	assert.Equal(t, 1, cur.Feed('a'))

	require.True(t, m.Register([]rune("ab"), nil, nil))
	assert.Equal(t, 1, cur.Feed('b'))
	kws, _ := matchesAt(&cur, 1)
	assert.Equal(t, []string{"ab"}, kws)

	require.True(t, m.Register([]rune("bc"), nil, nil))
	assert.Equal(t, 1, cur.Feed('c'))
	kws, _ = matchesAt(&cur, 1)
	assert.Equal(t, []string{"bc"}, kws)
}

func TestRoundTrip_FeedKeywordReproducesIt(t *testing.T) {
	// For any registered keyword, feeding it from a fresh cursor makes
	// match 0 reproduce the keyword, its value, and its rank.
	m := New[rune]()
	words := []string{"he", "she", "shells", "sea", "s"}
	for i, w := range words {
		require.True(t, m.Register([]rune(w), i*10, nil))
	}

	for i, w := range words {
		cur := m.Reset()
		n := 0
		for _, r := range w {
			n = cur.Feed(r)
		}
		require.Greater(t, n, 0, "feeding %q must match", w)

		kw, rank, value := cur.AppendMatch(nil, 0)
		assert.Equal(t, w, string(kw))
		assert.Equal(t, i, rank)
		assert.Equal(t, i*10, value)
	}
}

func TestAppendMatch_AppendsToExistingBuffer(t *testing.T) {
	m := New[rune]()
	require.True(t, m.Register([]rune("she"), nil, nil))

	cur := m.Reset()
	for _, r := range "she" {
		cur.Feed(r)
	}
	buf := []rune("got:")
	buf, _, _ = cur.AppendMatch(buf, 0)
	assert.Equal(t, "got:she", string(buf))
}

func TestReset_Idempotent(t *testing.T) {
	// Two cursors from two resets observe identical feeds and matches.
	m := New[rune]()
	for _, w := range []string{"he", "she", "his", "hers"} {
		require.True(t, m.Register([]rune(w), nil, nil))
	}

	a := m.Reset()
	b := m.Reset()
	for _, r := range "ushers and his herd" {
		na := a.Feed(r)
		nb := b.Feed(r)
		require.Equal(t, na, nb)
		for i := 0; i < na; i++ {
			ra, va := a.Match(i)
			rb, vb := b.Match(i)
			assert.Equal(t, ra, rb)
			assert.Equal(t, va, vb)
		}
	}
}

func TestMatch_IndexOutOfRangePanics(t *testing.T) {
	m := New[rune]()
	require.True(t, m.Register([]rune("he"), nil, nil))

	cur := m.Reset()
	cur.Feed('h')
	n := cur.Feed('e')
	require.Equal(t, 1, n)

	assert.Panics(t, func() { cur.Match(1) })
	assert.Panics(t, func() { cur.Match(-1) })
}

func TestFeed_RootAbsorbsUnknownSymbols(t *testing.T) {
	// No transition exists anywhere for 'x'; the cursor stays at the root
	// without materializing an alphabet-wide self-loop.
	m := New[rune]()
	require.True(t, m.Register([]rune("ab"), nil, nil))

	cur := m.Reset()
	assert.Equal(t, 0, cur.Feed('x'))
	assert.Equal(t, 0, cur.Feed('a'))
	assert.Equal(t, 1, cur.Feed('b'))
	assert.Equal(t, 0, cur.Feed('x'))
	assert.Equal(t, 0, cur.Feed('a'))
	assert.Equal(t, 1, cur.Feed('b'), "scan continues after absorption")
}
