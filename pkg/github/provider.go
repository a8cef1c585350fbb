package github

import (
	"context"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

var _ content.Provider = (*Client)(nil)

// List implements content.Provider. Hidden entries and non-markdown
// files are dropped; folders and files are sorted by name.
func (c *Client) List(ctx context.Context, path string) (*content.Listing, error) {
	entries, err := c.Contents.List(ctx, path)
	if err != nil {
		return nil, err
	}

	converted := make([]content.Entry, 0, len(entries))
	for _, e := range entries {
		var typ content.EntryType
		switch e.Type {
		case "dir":
			typ = content.TypeFolder
		case "file":
			typ = content.TypeFile
		default:
			continue
		}
		converted = append(converted, content.Entry{Name: e.Name, Path: e.Path, Type: typ, Size: e.Size})
	}
	return content.Filter{}.Apply(converted), nil
}

// Read implements content.Provider.
func (c *Client) Read(ctx context.Context, path string) (*content.Document, error) {
	entry, err := c.Contents.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	text, err := Decode(entry)
	if err != nil {
		return nil, content.DecodeError("read", path, err)
	}
	return &content.Document{
		Name:    entry.Name,
		Path:    entry.Path,
		Content: text,
		Size:    entry.Size,
	}, nil
}
