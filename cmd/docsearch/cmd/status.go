package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doylet/docsearch/internal/concurrency"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report collection and indexing status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			cols, err := c.Collections.List(ctx)
			if err != nil {
				return err
			}

			totalVectors := 0
			for _, col := range cols {
				totalVectors += col.VectorCount
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "collections: %d\n", len(cols))
			fmt.Fprintf(out, "vectors: %d\n", totalVectors)
			fmt.Fprintf(out, "active reads: %d\n", c.Coordinator.OperationCount(concurrency.KindRead))
			fmt.Fprintf(out, "active writes: %d\n", c.Coordinator.OperationCount(concurrency.KindWrite))

			for _, snap := range c.Progress.Snapshots() {
				fmt.Fprintf(out, "indexing %s: %s (%.1f%%, %d/%d files, %d chunks)\n",
					snap.Collection, snap.Stage, snap.ProgressPct, snap.FilesProcessed, snap.FilesTotal, snap.ChunksIndexed)
			}
			return nil
		},
	}
}
