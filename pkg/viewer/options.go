// Package viewer keeps the lazily expanded file tree of a notes
// repository, fetches and caches note content on demand and resolves
// internal links back to tree nodes.
//
// A Controller owns all state. Whatever front end hosts it implements
// View and receives every visible change through it.
package viewer

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

// Icons overrides the icon shown for folders and files, keyed by the
// lower-cased name (file names without extension). The "default" key
// replaces the built-in icon.
type Icons struct {
	Folders map[string]string `json:"folders" yaml:"folders"`
	Files   map[string]string `json:"files" yaml:"files"`
}

// Options is the static configuration of a Controller.
type Options struct {
	// Repo identifies the repository, e.g. "owner/notes".
	Repo string
	// Extension of note files. Defaults to ".md".
	Extension string
	// Excluded path prefixes never appear in the tree.
	Excluded []string
	Icons    Icons
	// ShowFileExtensions keeps the extension in file labels.
	ShowFileExtensions bool
	EnableBreadcrumbs  bool
	// MaxFileSize rejects larger files when non-zero.
	MaxFileSize int64
	Logger      *zerolog.Logger
}

func (o Options) clone() Options {
	if o.Extension == "" {
		o.Extension = content.DefaultExtension
	}
	o.Excluded = slices.Clone(o.Excluded)
	o.Icons.Folders = maps.Clone(o.Icons.Folders)
	o.Icons.Files = maps.Clone(o.Icons.Files)
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}
