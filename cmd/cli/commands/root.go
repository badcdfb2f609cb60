package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/taskman/internal/constants"
	"github.com/celestiaorg/taskman/pkg/api/v1/client"
	"github.com/celestiaorg/taskman/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagOutput        = "output"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// outputFormat is either json or table
	outputFormat string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	apiClient, err = client.NewClient(opts)
	return err
}

// NewRootCmd builds the command tree of the CLI
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskman",
		Short: "Taskman CLI - A command line interface for the Taskman API",
		Long: `Taskman CLI manages projects, tasks and the todo list of a running
Taskman server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Flag > env var > default
			if !cmd.Flags().Changed(flagServerAddress) {
				if envAddr := os.Getenv(constants.EnvServerAddress); envAddr != "" {
					serverAddress = envAddr
				}
			}
			if serverAddress == "" {
				return fmt.Errorf("server address cannot be empty")
			}
			if err := validateOutput(); err != nil {
				return err
			}
			return initClient()
		},
	}

	root.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the Taskman API server (env: "+constants.EnvServerAddress+")")
	addSubcommands(root)
	return root
}

// addSubcommands attaches the output flag and every resource command to root
func addSubcommands(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&outputFormat, flagOutput, "O", outputJSON, "Output format: json or table")

	root.AddCommand(GetHealthCmd())
	root.AddCommand(GetProjectsCmd())
	root.AddCommand(GetTasksCmd())
	root.AddCommand(GetTodosCmd())
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
