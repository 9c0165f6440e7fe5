package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and collection revisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		health, err := studio.api.Health(ctx)
		if err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}
		fmt.Printf("server: %s (%s)\n", serverURL, ui.RenderAccent(health))

		collections, err := studio.api.ListCollections(ctx)
		if err != nil {
			return err
		}
		if len(collections) == 0 {
			fmt.Println("no collections saved yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tREVISION\tUPDATED")
		for _, c := range collections {
			fmt.Fprintf(w, "%s\t%d\t%s\n", c.Kind, c.Revision, c.UpdatedAt.Format(timeLayout))
		}
		return w.Flush()
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Refresh all local collection snapshots from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := studio.hydrateProjects(ctx); err != nil {
			return err
		}
		if err := studio.hydrateVoices(ctx); err != nil {
			return err
		}
		if err := studio.hydrateMedia(ctx); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tITEMS\tREVISION")
		fmt.Fprintf(w, "projects\t%d\t%d\n", studio.projects.Len(), studio.projects.Revision())
		fmt.Fprintf(w, "voices\t%d\t%d\n", studio.voices.Len(), studio.voices.Revision())
		fmt.Fprintf(w, "media\t%d\t%d\n", studio.media.Len(), studio.media.Revision())
		return w.Flush()
	},
}
