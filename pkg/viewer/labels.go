package viewer

import (
	"strings"
)

const (
	defaultFolderIcon = "📁"
	defaultFileIcon   = "📄"
)

// Label is the text shown for a tree entry.
func Label(name string, kind Kind, opts Options) string {
	if kind == KindFile && !opts.ShowFileExtensions {
		return strings.TrimSuffix(name, extension(opts))
	}
	return name
}

// Icon returns the configured icon for a tree entry.
func Icon(name string, kind Kind, opts Options) string {
	if kind == KindFolder {
		return lookupIcon(opts.Icons.Folders, strings.ToLower(name), defaultFolderIcon)
	}
	stem := strings.TrimSuffix(name, extension(opts))
	return lookupIcon(opts.Icons.Files, strings.ToLower(stem), defaultFileIcon)
}

func lookupIcon(icons map[string]string, key, fallback string) string {
	if icon, ok := icons[key]; ok && icon != "" {
		return icon
	}
	if icon, ok := icons["default"]; ok && icon != "" {
		return icon
	}
	return fallback
}

func extension(opts Options) string {
	if opts.Extension == "" {
		return ".md"
	}
	return opts.Extension
}

// Crumb is one element of the breadcrumb trail.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Link is false for the current file.
	Link bool `json:"link"`
}

// Breadcrumbs returns Home, one crumb per ancestor folder and the file
// itself for path.
func Breadcrumbs(path, ext string) []Crumb {
	crumbs := []Crumb{{Name: "Home", Path: "", Link: true}}
	path = strings.Trim(path, "/")
	if path == "" {
		return crumbs
	}
	segments := strings.Split(path, "/")
	current := ""
	for _, seg := range segments[:len(segments)-1] {
		if current == "" {
			current = seg
		} else {
			current += "/" + seg
		}
		crumbs = append(crumbs, Crumb{Name: seg, Path: current, Link: true})
	}
	last := segments[len(segments)-1]
	return append(crumbs, Crumb{Name: strings.TrimSuffix(last, ext), Path: path})
}
