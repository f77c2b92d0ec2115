package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "azdo-mcp",
		Short: "An MCP tool server for Azure DevOps pull request review workflows.",
		Long: `azdo-mcp exposes Azure DevOps pull request operations as MCP tools:
creating and updating pull requests, completing, abandoning and
reactivating them, voting, managing discussion threads, searching code
and listing projects and teams.

Credentials are read from AZURE_DEVOPS_ORGANIZATION_URL and
AZURE_DEVOPS_PAT (a .env file in the working directory is honored).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
