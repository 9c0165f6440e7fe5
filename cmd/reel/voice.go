package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/collection"
	"github.com/quillcast/reel/internal/idgen"
	"github.com/quillcast/reel/internal/model"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Manage voice profiles",
}

var voiceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a voice profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("description")
		tags, _ := cmd.Flags().GetStringSlice("style")
		providerRef, _ := cmd.Flags().GetString("provider-ref")

		if err := studio.hydrateVoices(cmd.Context()); err != nil {
			return err
		}

		id, err := idgen.GenerateWithPrefix(idgen.PrefixVoice)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		v := studio.voices.Add(model.Voice{
			ID:          id,
			Name:        args[0],
			Description: desc,
			StyleTags:   tags,
			ProviderRef: providerRef,
			CreatedAt:   now,
			UpdatedAt:   now,
		})

		if jsonOutput {
			printJSON(v)
		} else {
			fmt.Printf("created voice %s\n", v.ID)
		}
		return nil
	},
}

var voiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List voice profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateVoices(cmd.Context()); err != nil {
			return err
		}
		voices := studio.voices.Read()
		if jsonOutput {
			printJSON(voices)
			return nil
		}
		printVoiceList(voices)
		return nil
	},
}

var voiceAssignCmd = &cobra.Command{
	Use:   "assign <voice-id> <project-id>",
	Short: "Assign a voice to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := studio.hydrateVoices(ctx); err != nil {
			return err
		}
		if err := studio.hydrateProjects(ctx); err != nil {
			return err
		}

		voiceID, projectID := args[0], args[1]
		if _, ok := studio.projects.Get(projectID); !ok {
			return fmt.Errorf("project %q not found", projectID)
		}

		// The link lives on both sides so either collection alone renders
		// complete.
		if _, err := collection.Link(studio.voices, voiceID, projectID); err != nil {
			return fmt.Errorf("voice %q not found", voiceID)
		}
		if _, err := collection.Link(studio.projects, projectID, voiceID); err != nil {
			return fmt.Errorf("project %q not found", projectID)
		}

		fmt.Printf("assigned %s to %s\n", voiceID, projectID)
		return nil
	},
}

var voiceUnassignCmd = &cobra.Command{
	Use:   "unassign <voice-id> <project-id>",
	Short: "Remove a voice from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := studio.hydrateVoices(ctx); err != nil {
			return err
		}
		if err := studio.hydrateProjects(ctx); err != nil {
			return err
		}

		voiceID, projectID := args[0], args[1]
		if _, err := collection.Unlink(studio.voices, voiceID, projectID); err != nil {
			return fmt.Errorf("voice %q not found", voiceID)
		}
		if _, err := collection.Unlink(studio.projects, projectID, voiceID); err != nil {
			return fmt.Errorf("project %q not found", projectID)
		}

		fmt.Printf("unassigned %s from %s\n", voiceID, projectID)
		return nil
	},
}

var voiceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a voice profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := studio.hydrateVoices(ctx); err != nil {
			return err
		}

		v, ok := studio.voices.Get(args[0])
		if !ok {
			return fmt.Errorf("voice %q not found", args[0])
		}
		studio.voices.Remove(v.ID)

		// Drop dangling references from projects.
		if len(v.ProjectIDs) > 0 {
			if err := studio.hydrateProjects(ctx); err != nil {
				return err
			}
			for _, pid := range v.ProjectIDs {
				collection.Unlink(studio.projects, pid, v.ID)
			}
		}

		fmt.Printf("deleted voice %s\n", v.ID)
		return nil
	},
}

func init() {
	voiceCreateCmd.Flags().String("description", "", "voice description")
	voiceCreateCmd.Flags().StringSlice("style", nil, "style tags (comma-separated)")
	voiceCreateCmd.Flags().String("provider-ref", "", "synthesis provider voice reference")

	voiceCmd.AddCommand(voiceCreateCmd)
	voiceCmd.AddCommand(voiceListCmd)
	voiceCmd.AddCommand(voiceAssignCmd)
	voiceCmd.AddCommand(voiceUnassignCmd)
	voiceCmd.AddCommand(voiceDeleteCmd)
}
