// Package content defines the read-only contract between the viewer and
// whatever remote repository serves the notes.
package content

import (
	"context"
)

// DefaultExtension is the suffix of files the viewer shows.
const DefaultExtension = ".md"

// EntryType distinguishes folders from files in a listing.
type EntryType string

const (
	TypeFolder EntryType = "folder"
	TypeFile   EntryType = "file"
)

// Entry is a single child of a listed folder.
type Entry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	Size int64     `json:"size,omitempty"`
}

// Listing is the filtered, ordered content of a folder.
type Listing struct {
	Folders []Entry `json:"folders"`
	Files   []Entry `json:"files"`
}

// Document is the raw text of a file.
type Document struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// Provider lists folders and reads files from a remote repository.
// Both operations are idempotent reads.
type Provider interface {
	List(ctx context.Context, path string) (*Listing, error)
	Read(ctx context.Context, path string) (*Document, error)
}

// JoinPath joins a folder path and a child name. The root folder is "".
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
