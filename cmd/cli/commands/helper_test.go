package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/test"
)

// runCommand executes args against a fresh command tree wired to the suite's
// API client and returns what the command printed
func runCommand(t *testing.T, suite *test.Suite, args ...string) (string, error) {
	t.Helper()

	originalClient := apiClient
	apiClient = suite.APIClient
	defer func() { apiClient = originalClient }()

	cmd := &cobra.Command{Use: "taskman", SilenceUsage: true, SilenceErrors: true}
	addSubcommands(cmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
