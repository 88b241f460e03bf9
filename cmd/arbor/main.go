package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	arborerrors "github.com/arbor-ui/arbor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Server-driven declarative UI for Go",
		Long: `Arbor renders declarative component trees on the server and keeps
them interactive in the browser.

  • Reactive state cells with coalesced recomposition
  • SSR with attribute-driven hydration
  • Inline bootloader for pre-hydration interactivity
  • Live updates over WebSocket
  • Static export with S3 publishing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		exportCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		arborerrors.PrintError(err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("\033[36m→\033[0m %s\n", fmt.Sprintf(format, args...))
}
