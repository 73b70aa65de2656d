package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/socket"
	"github.com/corey/acm/internal/app"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the acm scan daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon health",
	RunE:  runDaemonStatus,
}

var (
	daemonDict  string
	daemonWords string
	daemonFold  bool
)

func init() {
	daemonCmd.PersistentFlags().StringVar(&daemonDict, "dict", "", "dictionary database path (default ./.acm.db)")
	daemonStartCmd.Flags().StringVar(&daemonWords, "words", "", "word file to mirror into the machine")
	daemonStartCmd.Flags().BoolVar(&daemonFold, "fold", false, "case-insensitive matching")
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

func daemonDictPath() string {
	if daemonDict != "" {
		return daemonDict
	}
	return defaultDictPath()
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	dict := daemonDictPath()
	sockPath := socket.SocketPath(dict)

	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("daemon already running")
		return nil
	}

	a, err := app.New(app.Config{
		DictDB:   dict,
		WordFile: daemonWords,
		Fold:     daemonFold,
		SockPath: sockPath,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		return err
	}

	fmt.Printf("acm daemon started at %s (%d keywords)\n", sockPath, a.KeywordCount())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-a.ShutdownCh():
	}

	fmt.Println("shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(daemonDictPath()))
	if !client.Ping() {
		fmt.Println("daemon is not running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return err
	}
	fmt.Println("daemon stopped")
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(daemonDictPath()))
	if !client.Ping() {
		return fmt.Errorf("daemon is not running")
	}
	h, err := client.Health()
	if err != nil {
		return err
	}
	fmt.Printf("status:   %s\n", h.Status)
	fmt.Printf("keywords: %d\n", h.KeywordCount)
	fmt.Printf("states:   %d\n", h.StateCount)
	fmt.Printf("uptime:   %s\n", h.Uptime)
	return nil
}
