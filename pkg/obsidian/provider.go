package obsidian

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

var _ content.Provider = (*Client)(nil)

// List implements content.Provider on top of the vault listing.
func (c *Client) List(ctx context.Context, dir string) (*content.Listing, error) {
	dir = strings.Trim(dir, "/")
	names, err := c.Vault.List(ctx, dir)
	if err != nil {
		return nil, providerError("list", dir, err)
	}

	entries := make([]content.Entry, 0, len(names))
	for _, name := range names {
		typ := content.TypeFile
		if strings.HasSuffix(name, "/") {
			typ = content.TypeFolder
			name = strings.TrimSuffix(name, "/")
		}
		entries = append(entries, content.Entry{
			Name: name,
			Path: content.JoinPath(dir, name),
			Type: typ,
		})
	}
	return content.Filter{}.Apply(entries), nil
}

// Read implements content.Provider.
func (c *Client) Read(ctx context.Context, p string) (*content.Document, error) {
	note, err := c.Vault.GetNote(ctx, p)
	if err != nil {
		return nil, providerError("read", p, err)
	}
	notePath := note.Path
	if notePath == "" {
		notePath = p
	}
	return &content.Document{
		Name:    path.Base(notePath),
		Path:    notePath,
		Content: note.Content,
		Size:    int64(note.Stat.Size),
	}, nil
}

func providerError(op, p string, err error) error {
	var apiErr *ErrorResponse
	if errors.As(err, &apiErr) {
		return content.RemoteError(op, p, apiErr.StatusCode(), apiErr.Message)
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return content.DecodeError(op, p, err)
	}
	return content.NetworkError(op, p, err)
}
