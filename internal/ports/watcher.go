package ports

// Watcher monitors the dictionary word file and triggers a reload when it is
// edited. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute
	// path after each edit (writes and editor save-by-rename both count).
	// The callback may be invoked from any goroutine. Returns an error if
	// the file's directory doesn't exist or permissions are insufficient.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
