package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

// ContentsService reads the repository contents API.
type ContentsService struct {
	client *Client
}

// List returns the raw entries of the directory at path ("" for the root).
func (s *ContentsService) List(ctx context.Context, path string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.contentsURL(path), nil)
	if err != nil {
		return nil, content.NetworkError("list", path, err)
	}

	var entries []Entry
	if err := s.client.do(req, "list", path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the metadata and base64 payload of the file at path.
func (s *ContentsService) Get(ctx context.Context, path string) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.contentsURL(path), nil)
	if err != nil {
		return nil, content.NetworkError("read", path, err)
	}

	var entry Entry
	if err := s.client.do(req, "read", path, &entry); err != nil {
		return nil, err
	}
	if entry.Type != "" && entry.Type != "file" {
		return nil, content.DecodeError("read", path, fmt.Errorf("%s is a %s, not a file", path, entry.Type))
	}
	return &entry, nil
}

// Decode returns the text of a file entry as valid UTF-8.
func Decode(entry *Entry) (string, error) {
	if entry.Encoding != "" && entry.Encoding != "base64" {
		return "", fmt.Errorf("unsupported encoding %q", entry.Encoding)
	}
	// The API wraps base64 payloads at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(entry.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return text, nil
}
