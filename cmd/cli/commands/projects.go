package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

var projectHeaders = []string{"Name", "Tags", "Tasks"}

// GetProjectsCmd returns the projects command
func GetProjectsCmd() *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := apiClient.ListProjects(context.Background())
			if err != nil {
				return fmt.Errorf("error listing projects: %w", err)
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.Name, strings.Join(p.Tags, ", "), strconv.FormatInt(p.TaskCount, 10)})
			}
			return render(cmd, handlers.ProjectListResponse{Projects: projects}, projectHeaders, rows)
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "open <name>",
		Short: "Open a project, creating it if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.OpenProject(context.Background(), handlers.ProjectOpenParams{Name: args[0]})
			if err != nil {
				return fmt.Errorf("error opening project: %w", err)
			}
			p := resp.Project
			return render(cmd, resp, projectHeaders, [][]string{
				{p.Name, strings.Join(p.Tags, ", "), strconv.FormatInt(p.TaskCount, 10)},
			})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the project the server has open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, ok, err := apiClient.GetState(context.Background())
			if err != nil {
				return fmt.Errorf("error reading server state: %w", err)
			}
			var resp handlers.StateResponse
			if ok {
				resp.CurrentProject = &name
			}
			return render(cmd, resp, []string{"Current project"}, [][]string{{name}})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.RenameProject(context.Background(), handlers.ProjectRenameParams{
				OldName: args[0],
				NewName: args[1],
			})
			if err != nil {
				return fmt.Errorf("error renaming project: %w", err)
			}
			return render(cmd, resp, []string{"Project"}, [][]string{{resp.Project}})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.DeleteProject(context.Background(), handlers.ProjectDeleteParams{Name: args[0]})
			if err != nil {
				return fmt.Errorf("error deleting project: %w", err)
			}
			return render(cmd, resp, []string{"Deleted"}, [][]string{{resp.Deleted}})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "tags [name]",
		Short: "Show the tags of one project, or of every project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				resp, err := apiClient.GetProjectTags(context.Background(), args[0])
				if err != nil {
					return fmt.Errorf("error getting project tags: %w", err)
				}
				return render(cmd, resp, []string{"Project", "Tags"}, [][]string{
					{resp.Project, strings.Join(resp.Tags, ", ")},
				})
			}

			byProject, err := apiClient.ListProjectTags(context.Background())
			if err != nil {
				return fmt.Errorf("error listing project tags: %w", err)
			}
			names := make([]string, 0, len(byProject))
			for name := range byProject {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, strings.Join(byProject[name], ", ")})
			}
			return render(cmd, handlers.ProjectTagsResponse{TagsByProject: byProject}, []string{"Project", "Tags"}, rows)
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "tag-add <name> <tag>...",
		Short: "Add tags to a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.AddProjectTags(context.Background(), args[0], handlers.ProjectAddTagsParams{Tags: args[1:]})
			if err != nil {
				return fmt.Errorf("error adding project tags: %w", err)
			}
			return render(cmd, resp, []string{"Project", "Tags"}, [][]string{
				{resp.Project, strings.Join(resp.Tags, ", ")},
			})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "tag-remove <name> <tag>",
		Short: "Remove a tag from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.RemoveProjectTag(context.Background(), args[0], handlers.ProjectRemoveTagParams{Tag: args[1]})
			if err != nil {
				return fmt.Errorf("error removing project tag: %w", err)
			}
			return render(cmd, resp, []string{"Project", "Tags"}, [][]string{
				{resp.Project, strings.Join(resp.Tags, ", ")},
			})
		},
	})

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "export <name>",
		Short: "Export the tasks of a project to a markdown file on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.ExportProject(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("error exporting project: %w", err)
			}
			return render(cmd, resp, []string{"Path"}, [][]string{{resp.Path}})
		},
	})

	return projectsCmd
}
