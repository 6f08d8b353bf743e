package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doylet/docsearch/internal/search"
)

func newSearchCmd() *cobra.Command {
	var (
		collection string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a hybrid search query against a collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			permit, err := c.Coordinator.AcquireRead(ctx, "cli.search")
			if err != nil {
				return err
			}
			defer permit.Release()

			results, err := c.Search.Search(ctx, query, search.Options{
				Collection: collection,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for i, r := range results {
				fmt.Fprintf(out, "%d. [%.3f] %s\n   %s\n", i+1, r.Scores.Fused, r.URI, r.Snippet)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "no results")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "restrict search to this collection")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")

	return cmd
}
