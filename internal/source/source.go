// Package source builds the content.Provider selected by a Config.
package source

import (
	"fmt"

	"github.com/bttk/obsidian-viewer/pkg/config"
	"github.com/bttk/obsidian-viewer/pkg/content"
	"github.com/bttk/obsidian-viewer/pkg/github"
	"github.com/bttk/obsidian-viewer/pkg/obsidian"
	"github.com/bttk/obsidian-viewer/pkg/proxy"
)

// New returns the provider for cfg.Source.
func New(cfg *config.Config) (content.Provider, error) {
	switch cfg.Source {
	case config.SourceGitHub, "":
		var opts []github.Option
		if cfg.GitHub.APIURL != "" {
			opts = append(opts, github.WithBaseURL(cfg.GitHub.APIURL))
		}
		return github.NewClient(cfg.GitHub.Repo, cfg.GitHub.Token, opts...)
	case config.SourceObsidian:
		var opts []obsidian.Option
		if cfg.Obsidian.Cert != "" {
			opts = append(opts, obsidian.WithCertificate(cfg.Obsidian.Cert))
		} else {
			opts = append(opts, obsidian.WithInsecureTLS())
		}
		return obsidian.NewClient(cfg.Obsidian.URL, cfg.Obsidian.APIKey, opts...)
	case config.SourceProxy:
		return proxy.NewClient(cfg.Proxy.URL)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// Describe names the repository or vault a provider reads, for logs.
func Describe(cfg *config.Config) string {
	switch cfg.Source {
	case config.SourceObsidian:
		return "obsidian vault at " + cfg.Obsidian.URL
	case config.SourceProxy:
		return "proxy at " + cfg.Proxy.URL
	default:
		return "github.com/" + cfg.GitHub.Repo
	}
}
