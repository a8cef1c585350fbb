package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/bttk/obsidian-viewer/pkg/viewer"
)

// ErrMissingRepo is returned when the GitHub source has no repository.
var ErrMissingRepo = errors.New("github.repo is not set")

// Source selects where notes are read from.
type Source string

const (
	SourceGitHub   Source = "github"
	SourceObsidian Source = "obsidian"
	SourceProxy    Source = "proxy"
)

// Config represents the configuration of the viewer and its servers.
type Config struct {
	Source Source `json:"source" yaml:"source"`
	GitHub struct {
		Repo   string `json:"repo" yaml:"repo"`
		Token  string `json:"token" yaml:"token"`
		APIURL string `json:"api_url" yaml:"api_url"`
	} `json:"github" yaml:"github"`
	Obsidian struct {
		URL    string `json:"url" yaml:"url"`
		Cert   string `json:"cert" yaml:"cert"`
		APIKey string `json:"apikey" yaml:"apikey"`
	} `json:"obsidian" yaml:"obsidian"`
	Viewer struct {
		Title              string       `json:"title" yaml:"title"`
		DefaultTheme       string       `json:"default_theme" yaml:"default_theme"`
		ExcludedPaths      []string     `json:"excluded_paths" yaml:"excluded_paths"`
		CustomIcons        viewer.Icons `json:"custom_icons" yaml:"custom_icons"`
		ShowFileExtensions bool         `json:"show_file_extensions" yaml:"show_file_extensions"`
		EnableBreadcrumbs  *bool        `json:"enable_breadcrumbs" yaml:"enable_breadcrumbs"`
		MaxFileSize        int64        `json:"max_file_size" yaml:"max_file_size"`
	} `json:"viewer" yaml:"viewer"`
	Proxy struct {
		Listen        string `json:"listen" yaml:"listen"`
		URL           string `json:"url" yaml:"url"`
		CacheEnabled  *bool  `json:"cache_enabled" yaml:"cache_enabled"`
		CacheDuration int    `json:"cache_duration" yaml:"cache_duration"`
		Auth          struct {
			Enabled bool              `json:"enabled" yaml:"enabled"`
			Realm   string            `json:"realm" yaml:"realm"`
			Users   map[string]string `json:"users" yaml:"users"`
		} `json:"auth" yaml:"auth"`
	} `json:"proxy" yaml:"proxy"`
	MCP struct {
		Tools map[string]bool `json:"tools" yaml:"tools"`
	} `json:"mcp" yaml:"mcp"`
}

// Load loads the configuration from a JSON or YAML file.
// If path is empty, it searches for "obsidian-viewer/config.json" and
// then "obsidian-viewer/config.yaml" in XDG config directories.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = search()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.setDefaults()

	configDir := filepath.Dir(path)
	resolve := func(p string) (string, error) {
		if p == "" || filepath.IsAbs(p) {
			return p, nil
		}
		fullPath := filepath.Join(configDir, p)
		return filepath.Abs(fullPath)
	}

	var errPath error
	if cfg.Obsidian.Cert, errPath = resolve(cfg.Obsidian.Cert); errPath != nil {
		return nil, errPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func search() (string, error) {
	var firstErr error
	for _, name := range []string{"obsidian-viewer/config.json", "obsidian-viewer/config.yaml"} {
		path, err := xdg.SearchConfigFile(name)
		if err == nil {
			return path, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

func (c *Config) setDefaults() {
	if c.Source == "" {
		c.Source = SourceGitHub
	}
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.Viewer.Title == "" {
		c.Viewer.Title = "Obsidian Notes"
	}
	if c.Viewer.DefaultTheme == "" {
		c.Viewer.DefaultTheme = "dark"
	}
	if c.Viewer.EnableBreadcrumbs == nil {
		enabled := true
		c.Viewer.EnableBreadcrumbs = &enabled
	}
	if c.Viewer.MaxFileSize == 0 {
		c.Viewer.MaxFileSize = 1 << 20
	}
	if c.Proxy.Listen == "" {
		c.Proxy.Listen = "127.0.0.1:8080"
	}
	if c.Proxy.CacheEnabled == nil {
		enabled := true
		c.Proxy.CacheEnabled = &enabled
	}
	if c.Proxy.CacheDuration == 0 {
		c.Proxy.CacheDuration = 3600
	}
	if c.Proxy.Auth.Realm == "" {
		c.Proxy.Auth.Realm = "Obsidian Notes - Restricted Area"
	}
}

// Validate checks that the selected source is usable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceGitHub:
		if c.GitHub.Repo == "" {
			return ErrMissingRepo
		}
	case SourceObsidian:
		if c.Obsidian.URL == "" || c.Obsidian.APIKey == "" {
			return errors.New("obsidian.url and obsidian.apikey are required")
		}
	case SourceProxy:
		if c.Proxy.URL == "" {
			return errors.New("proxy.url is required")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	return nil
}

// CacheTTL is the proxy response cache lifetime, zero when disabled.
func (c *Config) CacheTTL() time.Duration {
	if c.Proxy.CacheEnabled != nil && !*c.Proxy.CacheEnabled {
		return 0
	}
	return time.Duration(c.Proxy.CacheDuration) * time.Second
}

// ViewerOptions builds the controller options for this configuration.
func (c *Config) ViewerOptions() viewer.Options {
	repo := c.GitHub.Repo
	if c.Source == SourceObsidian {
		repo = c.Obsidian.URL
	}
	return viewer.Options{
		Repo:               repo,
		Excluded:           c.Viewer.ExcludedPaths,
		Icons:              c.Viewer.CustomIcons,
		ShowFileExtensions: c.Viewer.ShowFileExtensions,
		EnableBreadcrumbs:  c.Viewer.EnableBreadcrumbs == nil || *c.Viewer.EnableBreadcrumbs,
		MaxFileSize:        c.Viewer.MaxFileSize,
	}
}
