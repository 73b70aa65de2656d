// Package app wires together the dictionary store, the keyword machine, the
// word-file watcher, and the socket server. It provides lifecycle management
// for the acm daemon: create, start, stop.
package app

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	adbolt "github.com/corey/acm/internal/adapters/bbolt"
	fsw "github.com/corey/acm/internal/adapters/fsnotify"
	"github.com/corey/acm/internal/adapters/socket"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/domain/textscan"
	"github.com/corey/acm/internal/ports"
)

// Config holds the daemon configuration, resolved by the cmd layer.
type Config struct {
	DictDB   string // bbolt dictionary path
	WordFile string // optional plain-text keyword file to mirror (one per line)
	Fold     bool   // case-insensitive scanning
	SockPath string // defaults to socket.SocketPath(DictDB)
}

// App owns the shared machine and coordinates access to it: scans take the
// read side of the lock and run concurrently on their own cursors; keyword
// mutations take the write side, since the core forbids mutating a machine
// under an active cursor.
type App struct {
	cfg     Config
	store   ports.Dictionary
	watcher ports.Watcher
	server  *socket.Server

	mu      sync.RWMutex
	machine *automaton.Machine[rune]
}

// New creates an app with the dictionary loaded into a fresh machine.
// Every keyword carries a hit counter as its associated value.
func New(cfg Config) (*App, error) {
	if cfg.SockPath == "" {
		cfg.SockPath = socket.SocketPath(cfg.DictDB)
	}

	store, err := adbolt.NewStore(cfg.DictDB)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}

	a := &App{
		cfg:     cfg,
		store:   store,
		machine: automaton.New[rune](),
	}

	entries, err := store.All()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	for _, e := range entries {
		a.registerLocked(e.Keyword)
	}

	a.server = socket.NewServer(a, cfg.SockPath)
	return a, nil
}

// Start loads the word file (if configured), begins watching it, and starts
// the socket server.
func (a *App) Start() error {
	if a.cfg.WordFile != "" {
		if err := a.ReloadWordFile(); err != nil {
			return err
		}
		w, err := fsw.NewWatcher()
		if err != nil {
			return fmt.Errorf("watcher: %w", err)
		}
		a.watcher = w
		if err := w.Watch(a.cfg.WordFile, func(string) {
			// Reload errors are tolerated; the file may be mid-save.
			a.ReloadWordFile()
		}); err != nil {
			return fmt.Errorf("watch %s: %w", a.cfg.WordFile, err)
		}
	}
	return a.server.Start()
}

// Stop shuts down the watcher and server, flushes accumulated hit counts to
// the store, and closes it.
func (a *App) Stop() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.server.Stop()

	if err := a.store.RecordHits(a.drainHits()); err != nil {
		a.store.Close()
		return fmt.Errorf("flush hits: %w", err)
	}
	return a.store.Close()
}

// ShutdownCh exposes the server's remote-shutdown signal.
func (a *App) ShutdownCh() <-chan struct{} {
	return a.server.ShutdownCh()
}

// normalize applies the configured case folding to a keyword.
func (a *App) normalize(keyword string) string {
	if a.cfg.Fold {
		return strings.ToLower(keyword)
	}
	return keyword
}

// registerLocked adds a keyword with a fresh hit counter. Caller either
// holds the write lock or has exclusive access during construction.
func (a *App) registerLocked(keyword string) bool {
	kw := []rune(a.normalize(keyword))
	return a.machine.Register(kw, new(uint64), nil)
}

// Scan runs text through the shared machine and returns every match,
// incrementing the matched keywords' hit counters. Safe for concurrent use.
func (a *App) Scan(text string) []socket.ScanMatch {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []socket.ScanMatch
	sc := textscan.New(a.machine, a.cfg.Fold)
	sc.Scan(text, func(m textscan.Match) {
		if counter, ok := m.Value.(*uint64); ok {
			atomic.AddUint64(counter, 1)
		}
		out = append(out, socket.ScanMatch{Keyword: m.Keyword, Rank: m.Rank, End: m.End})
	})
	return out
}

// AddKeyword registers a keyword in the machine and persists it.
func (a *App) AddKeyword(keyword string) (bool, error) {
	if keyword == "" {
		return false, fmt.Errorf("empty keyword")
	}
	a.mu.Lock()
	added := a.registerLocked(keyword)
	a.mu.Unlock()

	stored, err := a.store.Add(a.normalize(keyword))
	if err != nil {
		return false, err
	}
	return added || stored, nil
}

// RemoveKeyword unregisters a keyword and removes it from the store.
func (a *App) RemoveKeyword(keyword string) (bool, error) {
	a.mu.Lock()
	removed := a.machine.Unregister([]rune(a.normalize(keyword)))
	a.mu.Unlock()

	stored, err := a.store.Remove(a.normalize(keyword))
	if err != nil {
		return false, err
	}
	return removed || stored, nil
}

// Keywords returns the machine's current keyword list.
func (a *App) Keywords() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []string
	a.machine.ForEachKeyword(func(kw []rune, _ any) {
		out = append(out, string(kw))
	})
	sort.Strings(out)
	return out
}

// KeywordCount returns the number of registered keywords.
func (a *App) KeywordCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.machine.KeywordCount()
}

// StateCount returns the machine's state count.
func (a *App) StateCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.machine.StateCount()
}

// Hits returns the accumulated in-memory hit counts per keyword.
func (a *App) Hits() map[string]uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	hits := make(map[string]uint64)
	a.machine.ForEachKeyword(func(kw []rune, value any) {
		if counter, ok := value.(*uint64); ok {
			if n := atomic.LoadUint64(counter); n > 0 {
				hits[string(kw)] = n
			}
		}
	})
	return hits
}

// drainHits returns the accumulated hit counts and resets the counters.
func (a *App) drainHits() map[string]uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	hits := make(map[string]uint64)
	a.machine.ForEachKeyword(func(kw []rune, value any) {
		if counter, ok := value.(*uint64); ok {
			if n := atomic.SwapUint64(counter, 0); n > 0 {
				hits[string(kw)] = n
			}
		}
	})
	return hits
}

// ReloadWordFile diffs the word file against the machine: new lines are
// registered, vanished lines unregistered. Keywords loaded from the store
// are kept regardless of the file's contents.
func (a *App) ReloadWordFile() error {
	lines, err := readWordFile(a.cfg.WordFile)
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(lines))
	for kw := range lines {
		want[a.normalize(kw)] = true
	}

	stored := make(map[string]bool)
	entries, err := a.store.All()
	if err != nil {
		return err
	}
	for _, e := range entries {
		stored[a.normalize(e.Keyword)] = true
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	current := make(map[string]bool)
	a.machine.ForEachKeyword(func(kw []rune, _ any) {
		current[string(kw)] = true
	})

	for kw := range want {
		if !current[kw] {
			a.machine.Register([]rune(kw), new(uint64), nil)
		}
	}
	for kw := range current {
		if !want[kw] && !stored[kw] {
			a.machine.Unregister([]rune(kw))
		}
	}
	return nil
}

// readWordFile parses one keyword per line, skipping blanks and # comments.
func readWordFile(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word file: %w", err)
	}
	defer f.Close()

	words := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	return words, nil
}
