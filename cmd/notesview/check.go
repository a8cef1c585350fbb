package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bttk/obsidian-viewer/internal/source"
	"github.com/bttk/obsidian-viewer/pkg/config"
	"github.com/bttk/obsidian-viewer/pkg/content"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test the connection to the configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:  %s\n", source.Describe(a.cfg))
			if a.cfg.Source == config.SourceGitHub {
				if a.cfg.GitHub.Token != "" {
					fmt.Fprintf(out, "Token:   yes (length: %d)\n", len(a.cfg.GitHub.Token))
				} else {
					fmt.Fprintln(out, "Token:   no")
				}
			}

			listing, err := a.provider.List(cmd.Context(), "")
			if err != nil {
				fmt.Fprintln(out, "✗ Failed to connect")
				var ce *content.Error
				if errors.As(err, &ce) {
					fmt.Fprintf(out, "  kind:    %s\n", ce.Kind)
					if ce.Status != 0 {
						fmt.Fprintf(out, "  status:  %d\n", ce.Status)
					}
					if ce.RateLimited {
						fmt.Fprintln(out, "  rate limit exceeded; configure a token")
					} else if ce.Auth {
						fmt.Fprintln(out, "  check the token or API key")
					}
				}
				return err
			}
			fmt.Fprintln(out, "✓ Connection successful")
			fmt.Fprintf(out, "Found %d items in the repository root.\n", len(listing.Folders)+len(listing.Files))
			return nil
		},
	}
}
