// acm is a dictionary keyword scanner built on a generic Aho-Corasick
// machine. Keywords can be added and removed between scans; a daemon mode
// serves concurrent scans over a Unix socket.
package main

import (
	"os"

	"github.com/corey/acm/cmd/acm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
