package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bttk/obsidian-viewer/pkg/viewer"
)

func newShowCmd(a *app) *cobra.Command {
	var raw, links bool

	cmd := &cobra.Command{
		Use:   "show <note>",
		Short: "Render a note to HTML",
		Long: `Render a note to HTML. The note may be given with or without its
extension, as a link destination (docs/Guide.md#Setup) or as part of a
path; the first match in tree order is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page := viewer.NewPage()
			c, err := a.controller(ctx, page)
			if err != nil {
				return err
			}
			if err := c.Navigate(ctx, args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			active := c.ActivePath()
			if active == "" {
				return fmt.Errorf("%q is a folder", args[0])
			}
			if raw {
				text, _ := c.Cache().Get(active)
				_, err := fmt.Fprint(out, text)
				return err
			}

			state := page.State()
			if links {
				for _, link := range state.Links {
					fmt.Fprintln(out, link)
				}
				return nil
			}
			if state.ShowBreadcrumbs {
				names := make([]string, 0, len(state.Breadcrumbs))
				for _, crumb := range state.Breadcrumbs {
					names = append(names, crumb.Name)
				}
				fmt.Fprintf(out, "<!-- %s -->\n", strings.Join(names, " / "))
			}
			fmt.Fprintf(out, "<h1 class=\"content-title\">%s</h1>\n%s\n", html.EscapeString(state.Title), state.Body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")
	cmd.Flags().BoolVar(&links, "links", false, "print internal link destinations only")
	return cmd
}
