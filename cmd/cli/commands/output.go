package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/db/todo"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func validateOutput() error {
	switch outputFormat {
	case outputJSON, outputTable:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: use %s or %s", outputFormat, outputJSON, outputTable)
	}
}

// render prints v as indented JSON, or headers and rows as a table when the
// table output is selected
func render(cmd *cobra.Command, v interface{}, headers []string, rows [][]string) error {
	if outputFormat == outputTable {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers(headers...).
			Rows(rows...)
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	}

	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}

var taskHeaders = []string{"Project", "ID", "Summary", "Assignee", "Status", "Priority", "Tags", "Highlight"}

func taskRows(tasks []models.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.Project,
			strconv.FormatUint(uint64(t.ID), 10),
			t.Summary,
			t.Assignee,
			string(t.Status),
			string(t.Priority),
			strings.Join(t.Tags, ", "),
			yesNo(t.Highlight),
		})
	}
	return rows
}

var todoHeaders = []string{"ID", "Title", "Due", "Priority", "People", "Done"}

func todoRows(items []todo.Todo) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			it.Title,
			it.DueDate,
			string(it.Priority),
			strings.Join(it.People, ", "),
			yesNo(it.Done),
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// parseID parses a positive numeric task or todo id argument
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", arg)
	}
	return id, nil
}
