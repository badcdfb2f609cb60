package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/internal/db/todo"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

// Todo flag names
const (
	flagNote   = "note"
	flagDue    = "due"
	flagPeople = "people"
	flagUndo   = "undo"
)

// GetTodosCmd returns the todos command
func GetTodosCmd() *cobra.Command {
	todosCmd := &cobra.Command{
		Use:   "todos",
		Short: "Manage the todo list",
	}

	todosCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every todo item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := apiClient.ListTodos(context.Background())
			if err != nil {
				return fmt.Errorf("error listing todos: %w", err)
			}
			return render(cmd, handlers.TodoListResponse{Items: items}, todoHeaders, todoRows(items))
		},
	})

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := todo.Input{Title: args[0]}
			var err error
			if in.Note, err = cmd.Flags().GetString(flagNote); err != nil {
				return fmt.Errorf("error getting note flag: %w", err)
			}
			if in.DueDate, err = cmd.Flags().GetString(flagDue); err != nil {
				return fmt.Errorf("error getting due flag: %w", err)
			}
			if in.Priority, err = cmd.Flags().GetString(flagPriority); err != nil {
				return fmt.Errorf("error getting priority flag: %w", err)
			}
			people, err := cmd.Flags().GetString(flagPeople)
			if err != nil {
				return fmt.Errorf("error getting people flag: %w", err)
			}
			in.People = todo.ParsePeople(people)

			item, err := apiClient.AddTodo(context.Background(), handlers.TodoAddParams{Input: in})
			if err != nil {
				return fmt.Errorf("error adding todo: %w", err)
			}
			return render(cmd, item, todoHeaders, todoRows([]todo.Todo{item}))
		},
	}
	addCmd.Flags().StringP(flagNote, "n", "", "Longer note")
	addCmd.Flags().StringP(flagDue, "d", "", "Due date as YYYY-MM-DD")
	addCmd.Flags().StringP(flagPriority, "p", "", "Priority (low, medium, high, urgent)")
	addCmd.Flags().String(flagPeople, "", "Comma separated people involved")
	todosCmd.AddCommand(addCmd)

	markCmd := &cobra.Command{
		Use:   "mark <id>",
		Short: "Mark a todo item done, or not done with --undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			undo, err := cmd.Flags().GetBool(flagUndo)
			if err != nil {
				return fmt.Errorf("error getting undo flag: %w", err)
			}
			done := !undo
			item, err := apiClient.MarkTodo(context.Background(), handlers.TodoMarkParams{ID: handlers.ID(id), Done: &done})
			if err != nil {
				return fmt.Errorf("error marking todo: %w", err)
			}
			return render(cmd, item, todoHeaders, todoRows([]todo.Todo{item}))
		},
	}
	markCmd.Flags().Bool(flagUndo, false, "Mark the item as not done")
	todosCmd.AddCommand(markCmd)

	return todosCmd
}
