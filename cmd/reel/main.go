// Command reel is the CLI client for the reel studio backend. Commands work
// against locally cached collection snapshots; edits are written through to
// the server in the background and any stragglers are couriered out on exit.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/ui"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	studio *session
)

func defaultServer() string {
	if s := os.Getenv("REEL_SERVER"); s != "" {
		return s
	}
	if s := activeRemoteURL(); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("REEL_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:          "reel",
	Short:        "CLI client for the reel studio service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		studio = newSession(serverURL, authToken, activeRemoteNATSURL())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if studio != nil {
			studio.shutdown()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(episodeCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(pullCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
