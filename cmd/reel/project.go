package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/collection"
	"github.com/quillcast/reel/internal/idgen"
	"github.com/quillcast/reel/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		desc, _ := cmd.Flags().GetString("description")

		if err := studio.hydrateProjects(ctx); err != nil {
			return err
		}

		id, err := idgen.GenerateWithPrefix(idgen.PrefixProject)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		p := studio.projects.Add(model.Project{
			ID:          id,
			Title:       args[0],
			Description: desc,
			Status:      model.ProjectDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		})

		if jsonOutput {
			printJSON(p)
		} else {
			fmt.Printf("created project %s\n", p.ID)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateProjects(cmd.Context()); err != nil {
			return err
		}
		projects := studio.projects.Read()
		if jsonOutput {
			printJSON(projects)
			return nil
		}
		printProjectList(projects)
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateProjects(cmd.Context()); err != nil {
			return err
		}
		p, ok := studio.projects.Get(args[0])
		if !ok {
			return fmt.Errorf("project %q not found", args[0])
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		printProjectTable(p)
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a project's status (draft|in_progress|published|archived)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.ProjectStatus(args[1])
		if !status.IsValid() {
			return fmt.Errorf("unknown status %q", args[1])
		}
		if err := studio.hydrateProjects(cmd.Context()); err != nil {
			return err
		}
		p, err := studio.projects.Update(args[0], func(p model.Project) model.Project {
			p.Status = status
			return p
		})
		if err != nil {
			return fmt.Errorf("project %q not found", args[0])
		}
		fmt.Printf("project %s is now %s\n", p.ID, p.Status)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := studio.hydrateProjects(ctx); err != nil {
			return err
		}
		if !studio.projects.Remove(args[0]) {
			return fmt.Errorf("project %q not found", args[0])
		}

		// Drop dangling references from voices.
		if err := studio.hydrateVoices(ctx); err != nil {
			return err
		}
		for _, v := range studio.voices.Read() {
			for _, pid := range v.ProjectIDs {
				if pid == args[0] {
					collection.Unlink(studio.voices, v.ID, args[0])
					break
				}
			}
		}

		fmt.Printf("deleted project %s\n", args[0])
		return nil
	},
}

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Manage episodes within a project",
}

var episodeAddCmd = &cobra.Command{
	Use:   "add <project-id> <title>",
	Short: "Add an episode to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.hydrateProjects(cmd.Context()); err != nil {
			return err
		}

		id, err := idgen.GenerateWithPrefix(idgen.PrefixEpisode)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		_, err = studio.projects.Update(args[0], func(p model.Project) model.Project {
			p.Episodes = append(p.Episodes, model.Episode{
				ID:        id,
				Title:     args[1],
				Status:    model.EpisodeOutlined,
				CreatedAt: now,
				UpdatedAt: now,
			})
			return p
		})
		if err != nil {
			return fmt.Errorf("project %q not found", args[0])
		}
		fmt.Printf("added episode %s to %s\n", id, args[0])
		return nil
	},
}

var episodeStatusCmd = &cobra.Command{
	Use:   "status <project-id> <episode-id> <status>",
	Short: "Set an episode's status (outlined|scripted|recorded|published)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.EpisodeStatus(args[2])
		switch status {
		case model.EpisodeOutlined, model.EpisodeScripted, model.EpisodeRecorded, model.EpisodePublished:
		default:
			return fmt.Errorf("unknown status %q", args[2])
		}

		if err := studio.hydrateProjects(cmd.Context()); err != nil {
			return err
		}

		found := false
		_, err := studio.projects.Update(args[0], func(p model.Project) model.Project {
			eps := make([]model.Episode, len(p.Episodes))
			copy(eps, p.Episodes)
			for i := range eps {
				if eps[i].ID == args[1] {
					eps[i].Status = status
					eps[i].UpdatedAt = time.Now().UTC()
					found = true
				}
			}
			p.Episodes = eps
			return p
		})
		if err != nil {
			return fmt.Errorf("project %q not found", args[0])
		}
		if !found {
			return fmt.Errorf("episode %q not found in project %q", args[1], args[0])
		}
		fmt.Printf("episode %s is now %s\n", args[1], status)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("description", "", "project description")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectStatusCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	episodeCmd.AddCommand(episodeAddCmd)
	episodeCmd.AddCommand(episodeStatusCmd)
}
