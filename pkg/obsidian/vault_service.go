package obsidian

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// VaultService handles read access to files in the vault.
type VaultService struct {
	client *Client
}

// List lists files in the root directory (if path is empty) or a specified
// directory. Directory names carry a trailing slash.
func (s *VaultService) List(ctx context.Context, path string) ([]string, error) {
	// The API wants /vault/{pathToDirectory}/ for directory listings.
	p := "vault/"
	if path = strings.Trim(path, "/"); path != "" {
		p += path + "/"
	}
	u := s.client.baseURL.ResolveReference(&url.URL{Path: p})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Files []string `json:"files"`
	}
	err = s.client.do(req, &resp)
	return resp.Files, err
}

// Get returns the content of a file in the vault.
func (s *VaultService) Get(ctx context.Context, path string) (string, error) {
	u := s.client.baseURL.ResolveReference(&url.URL{Path: "vault/" + path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}

	var content string
	err = s.client.do(req, &content)
	return content, err
}

// GetNote returns the file parsed as a Note struct.
func (s *VaultService) GetNote(ctx context.Context, path string) (*Note, error) {
	u := s.client.baseURL.ResolveReference(&url.URL{Path: "vault/" + path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.olrapi.note+json")

	var note Note
	err = s.client.do(req, &note)
	return &note, err
}
