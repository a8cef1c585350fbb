package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

// Client reads notes from a proxy Handler.
type Client struct {
	endpoint *url.URL
	user     string
	password string
	http     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithBasicAuth sends credentials on every request.
func WithBasicAuth(user, password string) ClientOption {
	return func(c *Client) {
		c.user, c.password = user, password
	}
}

// NewClient creates a client for the API endpoint, e.g.
// "http://localhost:8080/api".
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	c := &Client{
		endpoint: u,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ content.Provider = (*Client)(nil)

// List implements content.Provider.
func (c *Client) List(ctx context.Context, p string) (*content.Listing, error) {
	var resp ListResponse
	if err := c.get(ctx, actionList, p, &resp); err != nil {
		return nil, err
	}

	listing := &content.Listing{Folders: []content.Entry{}, Files: []content.Entry{}}
	for _, item := range resp.Folders {
		listing.Folders = append(listing.Folders, content.Entry{Name: item.Name, Path: item.Path, Type: content.TypeFolder})
	}
	for _, item := range resp.Files {
		e := content.Entry{Name: path.Base(item.Path), Path: item.Path, Type: content.TypeFile}
		if item.Size != nil {
			e.Size = *item.Size
		}
		listing.Files = append(listing.Files, e)
	}
	return listing, nil
}

// Read implements content.Provider.
func (c *Client) Read(ctx context.Context, p string) (*content.Document, error) {
	var resp FileResponse
	if err := c.get(ctx, actionFile, p, &resp); err != nil {
		return nil, err
	}
	return &content.Document{Name: resp.Name, Path: resp.Path, Content: resp.Content, Size: resp.Size}, nil
}

func (c *Client) get(ctx context.Context, action, p string, v interface{}) error {
	op := "read"
	if action == actionList {
		op = "list"
	}

	u := *c.endpoint
	q := u.Query()
	q.Set("action", action)
	q.Set("path", p)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return content.NetworkError(op, p, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return content.NetworkError(op, p, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return content.NetworkError(op, p, err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		msg := fmt.Sprintf("status code %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		return content.RemoteError(op, p, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return content.DecodeError(op, p, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
