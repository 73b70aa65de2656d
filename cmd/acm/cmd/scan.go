package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/bbolt"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/domain/textscan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file...]",
	Short: "Scan files or stdin for dictionary keywords",
	Long: "Builds a machine from the dictionary (and/or a word file) and scans " +
		"each input in a single pass, reporting every keyword occurrence.",
	RunE: runScan,
}

var (
	scanDict  string
	scanWords string
	scanFold  bool
	scanCount bool
)

func init() {
	scanCmd.Flags().StringVar(&scanDict, "dict", "", "dictionary database path (default ./.acm.db)")
	scanCmd.Flags().StringVar(&scanWords, "words", "", "plain-text keyword file, one per line")
	scanCmd.Flags().BoolVar(&scanFold, "fold", false, "case-insensitive matching")
	scanCmd.Flags().BoolVar(&scanCount, "count", false, "print per-keyword totals instead of matches")
}

func runScan(cmd *cobra.Command, args []string) error {
	machine, err := buildScanMachine()
	if err != nil {
		return err
	}
	if machine.KeywordCount() == 0 {
		return fmt.Errorf("no keywords; add some with: acm dict add <keyword>")
	}
	scanner := textscan.New(machine, scanFold)

	if len(args) == 0 {
		args = []string{"-"}
	}
	totals := make(map[string]int)
	for _, path := range args {
		name, text, err := readInput(path)
		if err != nil {
			return err
		}
		scanner.Scan(text, func(m textscan.Match) {
			if scanCount {
				totals[m.Keyword]++
				return
			}
			fmt.Printf("%s:%d: %s\n", name, m.End, m.Keyword)
		})
	}

	if scanCount {
		keywords := make([]string, 0, len(totals))
		for kw := range totals {
			keywords = append(keywords, kw)
		}
		sort.Strings(keywords)
		for _, kw := range keywords {
			fmt.Printf("%8d  %s\n", totals[kw], kw)
		}
	}
	return nil
}

// buildScanMachine registers keywords from the dictionary database and the
// optional word file into a fresh machine.
func buildScanMachine() (*automaton.Machine[rune], error) {
	machine := automaton.New[rune]()

	register := func(kw string) {
		if scanFold {
			kw = strings.ToLower(kw)
		}
		machine.Register([]rune(kw), nil, nil)
	}

	dictPath := scanDict
	if dictPath == "" {
		dictPath = defaultDictPath()
	}
	if _, err := os.Stat(dictPath); err == nil {
		store, err := bbolt.NewStore(dictPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		entries, err := store.All()
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			register(e.Keyword)
		}
	} else if scanDict != "" {
		return nil, fmt.Errorf("dictionary %s: %w", scanDict, err)
	}

	if scanWords != "" {
		data, err := os.ReadFile(scanWords)
		if err != nil {
			return nil, fmt.Errorf("word file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			register(line)
		}
	}
	return machine, nil
}

// readInput returns a display name and the contents of path ("-" = stdin).
func readInput(path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("stdin: %w", err)
		}
		return "stdin", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}
