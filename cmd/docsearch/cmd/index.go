package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doylet/docsearch/internal/container"
	"github.com/doylet/docsearch/internal/indexer"
)

func newIndexCmd() *cobra.Command {
	var (
		collection string
		force      bool
		recursive  bool
		ignore     []string
	)

	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Index a directory into a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if collection == "" {
				return fmt.Errorf("--collection is required")
			}

			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if _, found, err := c.Collections.Get(ctx, collection); err != nil {
				return err
			} else if !found {
				if _, err := c.Collections.Create(ctx, collection, c.Embedder.Dimensions()); err != nil {
					return err
				}
			}

			opts := indexer.DefaultOptions(container.DefaultLockDir(c.Config))
			opts.Force = force
			opts.Recursive = recursive
			opts.Filter.IgnorePatterns = ignore

			result, err := c.Indexer.IndexCollection(ctx, collection, path, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files (%d skipped, %d failed), %d chunks into %q\n",
				result.FilesIndexed, result.FilesSkipped, result.FilesFailed, result.ChunksIndexed, collection)
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "destination collection name (required)")
	cmd.Flags().BoolVar(&force, "force", false, "reindex files even if their content hash is unchanged")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob patterns to exclude (repeatable)")

	return cmd
}
