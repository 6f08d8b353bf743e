// Package cmd provides the CLI commands for docsearch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/doylet/docsearch/internal/config"
	"github.com/doylet/docsearch/internal/container"
)

var configPath string

// NewRootCmd builds the docsearch root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Document indexing and hybrid semantic search service",
		Long: `docsearch indexes documents into collections and serves hybrid
(dense vector + BM25 lexical) search over them, either as a REST/MCP
server or directly from the command line.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults layered underneath)")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCollectionsCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// Execute runs the docsearch CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// buildContainer loads config from configPath and constructs the service
// container, the common entry point every subcommand shares.
func buildContainer() (*container.Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return container.Build(cfg)
}
