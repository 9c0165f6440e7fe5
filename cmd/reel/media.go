package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/collection"
	"github.com/quillcast/reel/internal/idgen"
	"github.com/quillcast/reel/internal/model"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the media library",
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <name> <uri>",
	Short: "Register a media item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeStr, _ := cmd.Flags().GetString("type")
		sizeBytes, _ := cmd.Flags().GetInt64("size")
		generated, _ := cmd.Flags().GetBool("generated")

		mediaType := model.MediaType(typeStr)
		if !mediaType.IsValid() {
			return fmt.Errorf("unknown media type %q (audio|image|music)", typeStr)
		}

		if err := studio.hydrateMedia(cmd.Context()); err != nil {
			return err
		}

		id, err := idgen.GenerateWithPrefix(idgen.PrefixMedia)
		if err != nil {
			return err
		}

		source := model.SourceUploaded
		if generated {
			source = model.SourceGenerated
		}

		now := time.Now().UTC()
		m := studio.media.Add(model.MediaItem{
			ID:        id,
			Name:      args[0],
			Type:      mediaType,
			URI:       args[1],
			SizeBytes: sizeBytes,
			Source:    source,
			CreatedAt: now,
			UpdatedAt: now,
		})

		if jsonOutput {
			printJSON(m)
		} else {
			fmt.Printf("added media %s\n", m.ID)
		}
		return nil
	},
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateMedia(cmd.Context()); err != nil {
			return err
		}
		items := studio.media.Read()
		if jsonOutput {
			printJSON(items)
			return nil
		}
		printMediaList(items)
		return nil
	},
}

var mediaAttachCmd = &cobra.Command{
	Use:   "attach <media-id> <episode-id>",
	Short: "Attach a media item to an episode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateMedia(cmd.Context()); err != nil {
			return err
		}
		if _, err := collection.Link(studio.media, args[0], args[1]); err != nil {
			return fmt.Errorf("media item %q not found", args[0])
		}
		fmt.Printf("attached %s to %s\n", args[0], args[1])
		return nil
	},
}

var mediaDetachCmd = &cobra.Command{
	Use:   "detach <media-id> <episode-id>",
	Short: "Detach a media item from an episode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateMedia(cmd.Context()); err != nil {
			return err
		}
		if _, err := collection.Unlink(studio.media, args[0], args[1]); err != nil {
			return fmt.Errorf("media item %q not found", args[0])
		}
		fmt.Printf("detached %s from %s\n", args[0], args[1])
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a media item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateMedia(cmd.Context()); err != nil {
			return err
		}
		if !studio.media.Remove(args[0]) {
			return fmt.Errorf("media item %q not found", args[0])
		}
		fmt.Printf("deleted media %s\n", args[0])
		return nil
	},
}

func init() {
	mediaAddCmd.Flags().String("type", "audio", "media type (audio|image|music)")
	mediaAddCmd.Flags().Int64("size", 0, "content size in bytes")
	mediaAddCmd.Flags().Bool("generated", false, "mark the item as synthesized rather than uploaded")

	mediaCmd.AddCommand(mediaAddCmd)
	mediaCmd.AddCommand(mediaListCmd)
	mediaCmd.AddCommand(mediaAttachCmd)
	mediaCmd.AddCommand(mediaDetachCmd)
	mediaCmd.AddCommand(mediaDeleteCmd)
}
