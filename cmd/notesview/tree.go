package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bttk/obsidian-viewer/pkg/viewer"
)

func newTreeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree [folder...]",
		Short: "Print the notes tree, expanding the given folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.controller(ctx, nil)
			if err != nil {
				return err
			}
			for _, folder := range args {
				if err := c.Resolve(ctx, folder); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(c.Root())
			}
			return viewer.WriteTree(cmd.OutOrStdout(), c.Root())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	return cmd
}
