package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bttk/obsidian-viewer/internal/source"
	"github.com/bttk/obsidian-viewer/pkg/config"
	"github.com/bttk/obsidian-viewer/pkg/content"
	"github.com/bttk/obsidian-viewer/pkg/viewer"
)

type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	provider content.Provider
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "notesview",
		Short: "Browse an Obsidian notes repository from the terminal",
		Long: `Browse an Obsidian notes repository hosted on GitHub, in a local
vault or behind notesproxy.

Examples:
  notesview tree                 # list the repository root
  notesview tree docs docs/api   # expand folders
  notesview show docs/Guide      # render a note
  notesview check                # test the connection`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return a.load()
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default: ~/.config/obsidian-viewer/config.json)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newTreeCmd(a), newShowCmd(a), newCheckCmd(a))
	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	provider, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.cfg, a.provider = cfg, provider
	return nil
}

// controller returns a viewer with the root listed.
func (a *app) controller(ctx context.Context, view viewer.View) (*viewer.Controller, error) {
	opts := a.cfg.ViewerOptions()
	opts.Logger = &log.Logger
	c := viewer.New(a.provider, opts, view)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
