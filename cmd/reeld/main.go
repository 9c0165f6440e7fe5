// Command reeld is the reel backend daemon: it serves the collection sync
// and ticket APIs over HTTP, publishes events to NATS, and runs periodic
// backups.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "reeld",
	Short:        "Reel studio backend daemon",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
