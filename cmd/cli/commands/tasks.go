package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

// Task flag names
const (
	flagSummary   = "summary"
	flagAssignee  = "assignee"
	flagRemarks   = "remarks"
	flagStatus    = "status"
	flagPriority  = "priority"
	flagTags      = "tags"
	flagTag       = "tag"
	flagHighlight = "highlight"
	flagOff       = "off"
)

// GetTasksCmd returns the tasks command
func GetTasksCmd() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	tasksCmd.AddCommand(listTasksCmd())
	tasksCmd.AddCommand(createTaskCmd())
	tasksCmd.AddCommand(updateTaskCmd())

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "delete <project> <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := apiClient.DeleteTask(context.Background(), args[0], handlers.TaskDeleteParams{ID: handlers.ID(id)}); err != nil {
				return fmt.Errorf("error deleting task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted from project '%s'\n", id, args[0])
			return nil
		},
	})

	highlightCmd := &cobra.Command{
		Use:   "highlight <project> <id>",
		Short: "Highlight a task, or clear its highlight with --off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			off, err := cmd.Flags().GetBool(flagOff)
			if err != nil {
				return fmt.Errorf("error getting off flag: %w", err)
			}
			on := !off
			task, err := apiClient.HighlightTask(context.Background(), args[0], handlers.TaskHighlightParams{
				ID:        handlers.ID(id),
				Highlight: &on,
			})
			if err != nil {
				return fmt.Errorf("error highlighting task: %w", err)
			}
			return render(cmd, task, taskHeaders, taskRows([]models.Task{task}))
		},
	}
	highlightCmd.Flags().Bool(flagOff, false, "Clear the highlight instead of setting it")
	tasksCmd.AddCommand(highlightCmd)

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "by-assignee <name>",
		Short: "List the tasks of one assignee across every project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := apiClient.ListTasksByAssignee(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("error listing tasks: %w", err)
			}
			return render(cmd, handlers.TaskListResponse{Tasks: tasks}, taskHeaders, taskRows(tasks))
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "highlights",
		Short: "List highlighted tasks across every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			highlights, err := apiClient.ListHighlights(context.Background())
			if err != nil {
				return fmt.Errorf("error listing highlights: %w", err)
			}
			rows := make([][]string, 0, len(highlights))
			for _, h := range highlights {
				rows = append(rows, []string{h.Project, fmt.Sprint(h.ID), h.Summary, h.Assignee, string(h.Status), string(h.Priority)})
			}
			return render(cmd, handlers.HighlightsResponse{Highlights: highlights},
				[]string{"Project", "ID", "Summary", "Assignee", "Status", "Priority"}, rows)
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "assignees",
		Short: "List every assignee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assignees, err := apiClient.ListAssignees(context.Background())
			if err != nil {
				return fmt.Errorf("error listing assignees: %w", err)
			}
			rows := make([][]string, 0, len(assignees))
			for _, a := range assignees {
				rows = append(rows, []string{a})
			}
			return render(cmd, handlers.AssigneesResponse{Assignees: assignees}, []string{"Assignee"}, rows)
		},
	})

	return tasksCmd
}

func listTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List the tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params handlers.TaskListParams
			var err error
			if params.Assignee, err = cmd.Flags().GetString(flagAssignee); err != nil {
				return fmt.Errorf("error getting assignee flag: %w", err)
			}
			if params.Status, err = cmd.Flags().GetString(flagStatus); err != nil {
				return fmt.Errorf("error getting status flag: %w", err)
			}
			if params.Priority, err = cmd.Flags().GetString(flagPriority); err != nil {
				return fmt.Errorf("error getting priority flag: %w", err)
			}
			if params.Tags, err = cmd.Flags().GetStringSlice(flagTag); err != nil {
				return fmt.Errorf("error getting tag flag: %w", err)
			}

			resp, err := apiClient.ListTasks(context.Background(), args[0], params)
			if err != nil {
				return fmt.Errorf("error listing tasks: %w", err)
			}
			return render(cmd, resp, taskHeaders, taskRows(resp.Tasks))
		},
	}
	cmd.Flags().StringP(flagAssignee, "a", "", "Only tasks of this assignee")
	cmd.Flags().String(flagStatus, "", "Only tasks with this status")
	cmd.Flags().StringP(flagPriority, "p", "", "Only tasks with this priority")
	cmd.Flags().StringSliceP(flagTag, "t", nil, "Only tasks carrying every given tag")
	return cmd
}

// addTaskFieldFlags registers the flags shared by create and update
func addTaskFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagSummary, "", "Task summary")
	cmd.Flags().StringP(flagAssignee, "a", "", "Task assignee")
	cmd.Flags().StringP(flagRemarks, "r", "", "Free-form remarks")
	cmd.Flags().String(flagStatus, "", "Task status (To Do, In Progress, Review, Done, Blocked, Cancelled)")
	cmd.Flags().StringP(flagPriority, "p", "", "Task priority (Low, Medium, High, Critical)")
	cmd.Flags().StringSliceP(flagTags, "t", nil, "Task tags")
	cmd.Flags().Bool(flagHighlight, false, "Highlight the task")
}

// taskFieldsFromFlags collects only the flags the user set
func taskFieldsFromFlags(cmd *cobra.Command) (models.TaskFields, error) {
	var fields models.TaskFields
	flags := cmd.Flags()

	for name, dst := range map[string]**string{
		flagSummary:  &fields.Summary,
		flagAssignee: &fields.Assignee,
		flagRemarks:  &fields.Remarks,
		flagStatus:   &fields.Status,
		flagPriority: &fields.Priority,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fields, fmt.Errorf("error getting %s flag: %w", name, err)
		}
		*dst = &v
	}
	if flags.Changed(flagTags) {
		tags, err := flags.GetStringSlice(flagTags)
		if err != nil {
			return fields, fmt.Errorf("error getting tags flag: %w", err)
		}
		fields.Tags = &tags
	}
	if flags.Changed(flagHighlight) {
		h, err := flags.GetBool(flagHighlight)
		if err != nil {
			return fields, fmt.Errorf("error getting highlight flag: %w", err)
		}
		fields.Highlight = &h
	}
	return fields, nil
}

func createTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <project>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := taskFieldsFromFlags(cmd)
			if err != nil {
				return err
			}
			task, err := apiClient.CreateTask(context.Background(), args[0], handlers.TaskCreateParams{TaskFields: fields})
			if err != nil {
				return fmt.Errorf("error creating task: %w", err)
			}
			return render(cmd, task, taskHeaders, taskRows([]models.Task{task}))
		},
	}
	addTaskFieldFlags(cmd)
	if err := cmd.MarkFlagRequired(flagSummary); err != nil {
		panic(fmt.Errorf("failed to mark summary flag as required for create task command: %w", err))
	}
	return cmd
}

func updateTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project> <id>",
		Short: "Update the given fields of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			fields, err := taskFieldsFromFlags(cmd)
			if err != nil {
				return err
			}
			task, err := apiClient.UpdateTask(context.Background(), args[0], handlers.TaskUpdateParams{
				ID:     handlers.ID(id),
				Fields: &fields,
			})
			if err != nil {
				return fmt.Errorf("error updating task: %w", err)
			}
			return render(cmd, task, taskHeaders, taskRows([]models.Task{task}))
		},
	}
	addTaskFieldFlags(cmd)
	return cmd
}
