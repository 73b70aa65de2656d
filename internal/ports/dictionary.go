package ports

// Entry is one persisted dictionary keyword with its accumulated scan hits.
type Entry struct {
	Keyword   string
	Hits      uint64
	AddedUnix int64
}

// Dictionary persists the keyword set between runs. The automaton itself is
// never persisted — it is rebuilt from the dictionary at startup.
type Dictionary interface {
	// Add stores a keyword. Returns false if it was already present.
	Add(keyword string) (bool, error)

	// Remove deletes a keyword. Returns false if it was not present.
	Remove(keyword string) (bool, error)

	// All returns every stored entry, in unspecified order.
	All() ([]Entry, error)

	// RecordHits adds the given per-keyword hit counts in one transaction.
	// Keywords not present in the dictionary are skipped.
	RecordHits(hits map[string]uint64) error

	// Close releases the underlying storage.
	Close() error
}
