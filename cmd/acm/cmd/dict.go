package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/bbolt"
	"github.com/corey/acm/internal/adapters/socket"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the persistent keyword dictionary",
}

var dictAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Add keywords to the dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDictAdd,
}

var dictRemoveCmd = &cobra.Command{
	Use:   "remove <keyword>...",
	Short: "Remove keywords from the dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDictRemove,
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dictionary keywords with their accumulated hits",
	RunE:  runDictList,
}

var dictPath string

func init() {
	dictCmd.PersistentFlags().StringVar(&dictPath, "dict", "", "dictionary database path (default ./.acm.db)")
	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictRemoveCmd)
	dictCmd.AddCommand(dictListCmd)
}

func resolveDictPath() string {
	if dictPath != "" {
		return dictPath
	}
	return defaultDictPath()
}

// viaDaemon routes a mutation through the daemon when one is running, so
// its in-memory machine stays in sync with the store.
func viaDaemon() *socket.Client {
	client := socket.NewClient(socket.SocketPath(resolveDictPath()))
	if client.Ping() {
		return client
	}
	return nil
}

func runDictAdd(cmd *cobra.Command, args []string) error {
	if client := viaDaemon(); client != nil {
		for _, kw := range args {
			added, err := client.Add(kw)
			if err != nil {
				return err
			}
			reportChange(kw, added, "added", "already present")
		}
		return nil
	}

	store, err := bbolt.NewStore(resolveDictPath())
	if err != nil {
		return err
	}
	defer store.Close()
	for _, kw := range args {
		added, err := store.Add(kw)
		if err != nil {
			return err
		}
		reportChange(kw, added, "added", "already present")
	}
	return nil
}

func runDictRemove(cmd *cobra.Command, args []string) error {
	if client := viaDaemon(); client != nil {
		for _, kw := range args {
			removed, err := client.Remove(kw)
			if err != nil {
				return err
			}
			reportChange(kw, removed, "removed", "not present")
		}
		return nil
	}

	store, err := bbolt.NewStore(resolveDictPath())
	if err != nil {
		return err
	}
	defer store.Close()
	for _, kw := range args {
		removed, err := store.Remove(kw)
		if err != nil {
			return err
		}
		reportChange(kw, removed, "removed", "not present")
	}
	return nil
}

func runDictList(cmd *cobra.Command, args []string) error {
	store, err := bbolt.NewStore(resolveDictPath())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.All()
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Keyword < entries[j].Keyword })
	for _, e := range entries {
		fmt.Printf("%8d  %s\n", e.Hits, e.Keyword)
	}
	fmt.Printf("[%d keywords]\n", len(entries))
	return nil
}

func reportChange(keyword string, changed bool, did, not string) {
	if changed {
		fmt.Printf("%s: %s\n", did, keyword)
	} else {
		fmt.Printf("%s: %s\n", not, keyword)
	}
}
