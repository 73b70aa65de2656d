package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "acm",
	Short: "acm — dictionary keyword scanner",
	Long:  "Multi-keyword text scanning backed by a generic Aho-Corasick machine.",
}

// defaultDictPath returns the dictionary database path (cwd by default).
func defaultDictPath() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return filepath.Join(dir, ".acm.db")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(daemonCmd)
}
