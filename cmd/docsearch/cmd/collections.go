package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doylet/docsearch/internal/model"
)

func newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
	}

	cmd.AddCommand(newCollectionsListCmd())
	cmd.AddCommand(newCollectionsCreateCmd())
	cmd.AddCommand(newCollectionsDeleteCmd())

	return cmd
}

func newCollectionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			cols, err := c.Collections.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, col := range cols {
				fmt.Fprintf(out, "%s\t%d vectors\t%d bytes\t%s\n", col.Name, col.VectorCount, col.SizeBytes, col.Status)
			}
			return nil
		},
	}
}

func newCollectionsCreateCmd() *cobra.Command {
	var dimension int

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			dim := dimension
			if dim <= 0 {
				dim = c.Embedder.Dimensions()
			}
			_, err = c.Collections.Create(cmd.Context(), args[0], dim)
			return err
		},
	}

	cmd.Flags().IntVar(&dimension, "dimension", 0, "vector dimension, default the embedder's own dimensionality")
	return cmd
}

func newCollectionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a collection and its vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			name := args[0]
			ctx := cmd.Context()

			var ids []string
			for _, id := range c.Lexical.AllIDs() {
				if docID, ok := model.FromIndexKey(id); ok && docID.Collection == name {
					ids = append(ids, id)
				}
			}
			if len(ids) > 0 {
				if err := c.Vectors.Delete(ctx, ids); err != nil {
					return err
				}
				if err := c.Lexical.Delete(ctx, ids); err != nil {
					return err
				}
			}
			return c.Collections.Delete(ctx, name)
		},
	}
}
